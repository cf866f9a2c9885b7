package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/errors"
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/question"
	"github.com/johnquangdev/mock-interview/internal/adapter/presenter"
	questionUsecase "github.com/johnquangdev/mock-interview/internal/usecase/question"
)

// Question handles question bank HTTP requests
type Question struct {
	questionService questionUsecase.Service
	logger          *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService questionUsecase.Service, logger *zap.Logger) *Question {
	return &Question{
		questionService: questionService,
		logger:          logger,
	}
}

// GetQuestions handles GET /questions
// @Summary      Get interview questions
// @Description  Returns the introduction and a shuffled list of at most ten questions
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  question.QuestionsResponse  "Interview material"
// @Failure      500  {object}  map[string]interface{}  "No introduction or bank unavailable"
// @Router       /questions [get]
func (h *Question) GetQuestions(c echo.Context) error {
	set, err := h.questionService.GetQuestions(c.Request().Context())
	if err != nil {
		return handleUsecaseError(h.logger, c, err, "", errors.ErrQuestionsUnavailable)
	}

	return HandleSuccess(h.logger, c, presenter.ToQuestionsResponse(set))
}

// CreateDialog handles POST /dialogs
// @Summary      Add a dialog line
// @Description  Adds an introduction or a question to the bank
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      question.CreateDialogRequest  true  "Dialog"
// @Success      201      {object}  question.DialogResponse  "Dialog created"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      500      {object}  map[string]interface{}  "Failed to store dialog"
// @Router       /dialogs [post]
func (h *Question) CreateDialog(c echo.Context) error {
	var req question.CreateDialogRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidationFailed(err))
	}

	dialog, err := h.questionService.CreateDialog(c.Request().Context(), questionUsecase.CreateDialogInput{
		Category: req.Category,
		Text:     req.Text,
	})
	if err != nil {
		return handleUsecaseError(h.logger, c, err, "", errors.ErrInternal)
	}

	return HandleCreated(h.logger, c, presenter.ToDialogResponse(dialog))
}
