package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	"github.com/johnquangdev/mock-interview/internal/domain/repositories"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/cache"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

const (
	// BankCacheKey holds the JSON encoded dialog bank
	BankCacheKey = "dialogs:bank"
	// EmptyDialogText replaces a dialog with no text
	EmptyDialogText = "No dialog available"
)

// Service defines the question bank use case
type Service interface {
	// FetchScript builds the script for one interview session
	FetchScript(ctx context.Context) (interview.SessionScript, error)

	// GetQuestions returns the introduction and a shuffled, capped question list
	GetQuestions(ctx context.Context) (*QuestionSet, error)

	// CreateDialog adds a line to the bank
	CreateDialog(ctx context.Context, input CreateDialogInput) (*entities.Dialog, error)
}

// CreateDialogInput is the input for CreateDialog
type CreateDialogInput struct {
	Category string
	Text     string
}

// QuestionSet is what one session asks
type QuestionSet struct {
	Introduction *entities.Dialog
	Questions    []*entities.Dialog
}

// bank is the cached, unshuffled dialog bank
type bank struct {
	Introduction []*entities.Dialog `json:"introduction"`
	Questions    []*entities.Dialog `json:"questions"`
}

// Ensure QuestionService implements Service and interview.ScriptProvider
var (
	_ Service                  = (*QuestionService)(nil)
	_ interview.ScriptProvider = (*QuestionService)(nil)
)

// QuestionService implements Service
type QuestionService struct {
	dialogRepo   repositories.DialogRepository
	store        cache.Store
	ttl          time.Duration
	maxQuestions int
	shuffle      func([]*entities.Dialog)
	logger       *zap.Logger
}

// NewQuestionService creates a new question service. store may be nil to
// always read from the repository.
func NewQuestionService(
	dialogRepo repositories.DialogRepository,
	store cache.Store,
	ttl time.Duration,
	maxQuestions int,
	logger *zap.Logger,
) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{
		dialogRepo:   dialogRepo,
		store:        store,
		ttl:          ttl,
		maxQuestions: maxQuestions,
		shuffle: func(d []*entities.Dialog) {
			rand.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })
		},
		logger: logger,
	}
}

// GetQuestions returns the introduction and up to maxQuestions shuffled questions
func (s *QuestionService) GetQuestions(ctx context.Context) (*QuestionSet, error) {
	b, err := s.loadBank(ctx)
	if err != nil {
		return nil, err
	}

	if len(b.Introduction) == 0 {
		s.logger.Error("❌ No introduction dialog found")
		return nil, usecaseErrors.ErrNoIntroduction
	}
	if len(b.Questions) == 0 {
		s.logger.Warn("⚠️ No question dialogs found")
	}

	questions := make([]*entities.Dialog, len(b.Questions))
	copy(questions, b.Questions)
	s.shuffle(questions)
	if s.maxQuestions > 0 && len(questions) > s.maxQuestions {
		questions = questions[:s.maxQuestions]
	}

	return &QuestionSet{
		Introduction: b.Introduction[0],
		Questions:    questions,
	}, nil
}

// FetchScript builds a SessionScript from the bank
func (s *QuestionService) FetchScript(ctx context.Context) (interview.SessionScript, error) {
	set, err := s.GetQuestions(ctx)
	if err != nil {
		return interview.SessionScript{}, err
	}

	script := interview.SessionScript{
		Introduction: &interview.DialogItem{Text: dialogText(set.Introduction)},
		Questions:    make([]interview.DialogItem, 0, len(set.Questions)),
	}
	for _, q := range set.Questions {
		script.Questions = append(script.Questions, interview.DialogItem{Text: dialogText(q)})
	}
	return script, nil
}

// CreateDialog validates and stores a dialog, then drops the cached bank
func (s *QuestionService) CreateDialog(ctx context.Context, input CreateDialogInput) (*entities.Dialog, error) {
	dialog := entities.NewDialog(input.Category, input.Text)
	if err := dialog.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidDialog, err)
	}

	if err := s.dialogRepo.Create(ctx, dialog); err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, BankCacheKey); err != nil {
			s.logger.Warn("⚠️ Failed to invalidate dialog bank cache", zap.Error(err))
		}
	}

	s.logger.Info("✅ Dialog created",
		zap.String("dialog_id", dialog.ID.String()),
		zap.String("category", dialog.Category),
	)
	return dialog, nil
}

func (s *QuestionService) loadBank(ctx context.Context) (*bank, error) {
	if s.store != nil {
		raw, ok, err := s.store.Get(ctx, BankCacheKey)
		if err != nil {
			s.logger.Warn("⚠️ Dialog bank cache read failed", zap.Error(err))
		} else if ok {
			var b bank
			if err := json.Unmarshal([]byte(raw), &b); err == nil {
				return &b, nil
			}
			s.logger.Warn("⚠️ Discarding malformed dialog bank cache entry")
		}
	}

	intro, err := s.dialogRepo.FindByCategory(ctx, entities.CategoryIntroduction)
	if err != nil {
		return nil, err
	}
	questions, err := s.dialogRepo.FindExcludingCategory(ctx, entities.CategoryIntroduction)
	if err != nil {
		return nil, err
	}
	b := &bank{Introduction: intro, Questions: questions}

	if s.store != nil && len(intro) > 0 {
		data, err := json.Marshal(b)
		if err == nil {
			err = s.store.Set(ctx, BankCacheKey, string(data), s.ttl)
		}
		if err != nil {
			s.logger.Warn("⚠️ Failed to cache dialog bank", zap.Error(err))
		}
	}
	return b, nil
}

func dialogText(d *entities.Dialog) string {
	if d == nil || d.Text == "" {
		return EmptyDialogText
	}
	return d.Text
}

// IsPermanent reports whether a fetch error will not go away on retry
func IsPermanent(err error) bool {
	return errors.Is(err, usecaseErrors.ErrNoIntroduction) ||
		errors.Is(err, usecaseErrors.ErrMissingIntroduction)
}
