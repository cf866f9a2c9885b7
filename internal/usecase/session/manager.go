package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	"github.com/johnquangdev/mock-interview/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

// Manager is the registry of live sessions
type Manager struct {
	cfg      Config
	provider interview.ScriptProvider
	archive  Archive
	records  repositories.SessionRepository
	clock    clock.Clock
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	reaperStopChan  chan struct{}
	reaperWg        sync.WaitGroup
	isReaperRunning bool
	reaperMutex     sync.Mutex
}

// NewManager creates a session manager. archive and records may be nil.
func NewManager(
	cfg Config,
	provider interview.ScriptProvider,
	archive Archive,
	records repositories.SessionRepository,
	clk clock.Clock,
	logger *zap.Logger,
) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		provider: provider,
		archive:  archive,
		records:  records,
		clock:    clk,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create registers a new idle session
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.New()
	if m.records != nil {
		if err := m.records.Create(ctx, entities.NewInterviewSession(id)); err != nil {
			return nil, err
		}
	}

	s := newSession(id, m.cfg, m.clock, m.provider, m.archive, m.records, m.logger)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("✅ Session created", zap.String("session_id", id.String()))
	return s, nil
}

// Get returns a live session
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, usecaseErrors.ErrSessionNotFound
	}
	return s, nil
}

// Connect runs term against the session until the connection ends. An
// unfinished session is dropped when its terminal goes away.
func (m *Manager) Connect(id uuid.UUID, term Terminal) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	abandoned, err := s.Connect(term)
	if abandoned {
		m.remove(id)
	}
	return err
}

// Close ends and forgets a session
func (m *Manager) Close(id uuid.UUID) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	m.remove(id)
	s.Close()
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// ReapIdle closes sessions with no activity for longer than the idle timeout
func (m *Manager) ReapIdle() int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.clock.Now().Add(-m.cfg.IdleTimeout)

	var idle []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		m.logger.Info("🧹 Reaped idle sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// StartReaper reaps idle sessions every interval until stopped
func (m *Manager) StartReaper(ctx context.Context, interval time.Duration) error {
	m.reaperMutex.Lock()
	defer m.reaperMutex.Unlock()

	if m.isReaperRunning {
		return fmt.Errorf("session reaper already running")
	}
	if interval <= 0 {
		return fmt.Errorf("reap interval must be positive")
	}

	m.isReaperRunning = true
	m.reaperStopChan = make(chan struct{})

	m.logger.Info("🚀 Starting session reaper",
		zap.Duration("interval", interval),
		zap.Duration("idle_timeout", m.cfg.IdleTimeout),
	)

	m.reaperWg.Add(1)
	go func() {
		defer m.reaperWg.Done()

		ticker := m.clock.Ticker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.reaperStopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.ReapIdle()
			}
		}
	}()
	return nil
}

// StopReaper stops the reaper and waits for it to exit
func (m *Manager) StopReaper() error {
	m.reaperMutex.Lock()
	defer m.reaperMutex.Unlock()

	if !m.isReaperRunning {
		return fmt.Errorf("session reaper not running")
	}

	close(m.reaperStopChan)
	m.reaperWg.Wait()
	m.isReaperRunning = false

	m.logger.Info("✅ Session reaper stopped")
	return nil
}

// Shutdown closes every session and waits for their background writes
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		s.Wait()
	}
	m.logger.Info("✅ All sessions closed", zap.Int("count", len(sessions)))
}
