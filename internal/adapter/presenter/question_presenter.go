package presenter

import (
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/question"
	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	questionUsecase "github.com/johnquangdev/mock-interview/internal/usecase/question"
)

// ToDialogResponse converts a Dialog entity to DialogResponse DTO
func ToDialogResponse(d *entities.Dialog) *question.DialogResponse {
	if d == nil {
		return nil
	}

	text := d.Text
	if text == "" {
		text = questionUsecase.EmptyDialogText
	}

	return &question.DialogResponse{
		ID:        d.ID.String(),
		Category:  d.Category,
		Text:      text,
		CreatedAt: d.CreatedAt,
	}
}

// ToQuestionsResponse converts a question set to QuestionsResponse DTO
func ToQuestionsResponse(set *questionUsecase.QuestionSet) *question.QuestionsResponse {
	if set == nil {
		return nil
	}

	questions := make([]*question.DialogResponse, len(set.Questions))
	for i, q := range set.Questions {
		questions[i] = ToDialogResponse(q)
	}

	return &question.QuestionsResponse{
		Introduction: ToDialogResponse(set.Introduction),
		Questions:    questions,
	}
}
