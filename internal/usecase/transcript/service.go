package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	"github.com/johnquangdev/mock-interview/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	"github.com/johnquangdev/mock-interview/pkg/retry"
)

// Service defines the transcript archive use case
type Service interface {
	// Save stores a free-text transcript until the retention period ends
	Save(ctx context.Context, text string) (*entities.ArchivedTranscript, error)

	// Archive stores a completed session transcript, retrying transient failures
	Archive(ctx context.Context, sessionID uuid.UUID, entries []interview.TranscriptEntry) (*entities.ArchivedTranscript, error)

	// Get returns an unexpired transcript
	Get(ctx context.Context, id uuid.UUID) (*entities.ArchivedTranscript, error)

	// PurgeExpired deletes every transcript past its retention period
	PurgeExpired(ctx context.Context) (int64, error)

	StartPurgeWorker(ctx context.Context, interval time.Duration) error
	StopPurgeWorker() error
}

// Ensure TranscriptService implements Service interface
var _ Service = (*TranscriptService)(nil)

// TranscriptService implements Service
type TranscriptService struct {
	repo      repositories.TranscriptRepository
	clock     clock.Clock
	retention time.Duration
	policy    retry.Policy
	logger    *zap.Logger

	workerStopChan  chan struct{}
	workerWg        sync.WaitGroup
	isWorkerRunning bool
	workerMutex     sync.Mutex
}

// NewTranscriptService creates a new transcript service
func NewTranscriptService(
	repo repositories.TranscriptRepository,
	clk clock.Clock,
	retention time.Duration,
	policy retry.Policy,
	logger *zap.Logger,
) *TranscriptService {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{
		repo:      repo,
		clock:     clk,
		retention: retention,
		policy:    policy,
		logger:    logger,
	}
}

// Save trims and stores text
func (s *TranscriptService) Save(ctx context.Context, text string) (*entities.ArchivedTranscript, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, usecaseErrors.ErrEmptyTranscript
	}

	transcript := entities.NewArchivedTranscript(text, nil, s.clock.Now(), s.retention)
	if err := s.repo.Create(ctx, transcript); err != nil {
		return nil, err
	}

	s.logger.Info("✅ Transcript saved",
		zap.String("transcript_id", transcript.ID.String()),
		zap.Time("expires_at", transcript.ExpiresAt),
	)
	return transcript, nil
}

// Archive stores entries as both plain text and structured pairs
func (s *TranscriptService) Archive(ctx context.Context, sessionID uuid.UUID, entries []interview.TranscriptEntry) (*entities.ArchivedTranscript, error) {
	if len(entries) == 0 {
		return nil, usecaseErrors.ErrEmptyTranscript
	}

	pairs := make([]entities.TranscriptPair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, entities.TranscriptPair{Question: e.Question, Answer: e.Answer})
	}
	transcript := entities.NewArchivedTranscript(interview.FormatText(entries), pairs, s.clock.Now(), s.retention).
		WithSession(sessionID)

	attempt := 0
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		attempt++
		return s.repo.Create(ctx, transcript)
	}, func(err error, wait time.Duration) {
		s.logger.Warn("🔄 Retrying transcript archive",
			zap.String("session_id", sessionID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive transcript after %d attempts: %w", attempt, err)
	}

	s.logger.Info("✅ Session transcript archived",
		zap.String("session_id", sessionID.String()),
		zap.String("transcript_id", transcript.ID.String()),
		zap.Int("entries", len(entries)),
	)
	return transcript, nil
}

// Get returns the transcript with id unless it has expired
func (s *TranscriptService) Get(ctx context.Context, id uuid.UUID) (*entities.ArchivedTranscript, error) {
	transcript, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrTranscriptNotFound) {
			return nil, usecaseErrors.ErrTranscriptNotFound
		}
		return nil, err
	}
	if transcript.IsExpired(s.clock.Now()) {
		return nil, usecaseErrors.ErrTranscriptNotFound
	}
	return transcript, nil
}

// PurgeExpired deletes expired transcripts
func (s *TranscriptService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("🧹 Purged expired transcripts", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// StartPurgeWorker purges expired transcripts every interval until stopped
func (s *TranscriptService) StartPurgeWorker(ctx context.Context, interval time.Duration) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerRunning {
		return fmt.Errorf("purge worker already running")
	}
	if interval <= 0 {
		return fmt.Errorf("purge interval must be positive")
	}

	s.isWorkerRunning = true
	s.workerStopChan = make(chan struct{})

	s.logger.Info("🚀 Starting transcript purge worker", zap.Duration("interval", interval))

	s.workerWg.Add(1)
	go s.purgeWorker(ctx, interval)

	return nil
}

// StopPurgeWorker stops the purge worker and waits for it to exit
func (s *TranscriptService) StopPurgeWorker() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerRunning {
		return fmt.Errorf("purge worker not running")
	}

	s.logger.Info("🛑 Stopping transcript purge worker...")

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerRunning = false

	s.logger.Info("✅ Transcript purge worker stopped")
	return nil
}

func (s *TranscriptService) purgeWorker(ctx context.Context, interval time.Duration) {
	defer s.workerWg.Done()

	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				s.logger.Error("❌ Failed to purge expired transcripts", zap.Error(err))
			}
		}
	}
}
