package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	"github.com/johnquangdev/mock-interview/internal/domain/repositories"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/realtime"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	"github.com/johnquangdev/mock-interview/internal/usecase/question"
	"github.com/johnquangdev/mock-interview/pkg/retry"
)

const backgroundTimeout = 30 * time.Second

// Terminal is the browser end of a session
type Terminal interface {
	interview.SpeechEngine
	interview.Renderer
	interview.Recognizer
	interview.Media
	interview.Observer
	ReadLoop(handle func(realtime.Event)) error
	Close() error
}

// Archive stores completed transcripts
type Archive interface {
	Archive(ctx context.Context, sessionID uuid.UUID, entries []interview.TranscriptEntry) (*entities.ArchivedTranscript, error)
}

// Config is the runtime configuration shared by every session
type Config struct {
	Interview   interview.Config
	Retry       retry.Policy
	IdleTimeout time.Duration
}

// Snapshot is a point-in-time view of a session
type Snapshot struct {
	ID        uuid.UUID
	State     interview.State
	Cursor    int
	Question  string
	Remaining int
	Entries   []interview.TranscriptEntry
	Settings  interview.UserSettings
	MicOn     bool
	CameraOn  bool
	Connected bool
	CreatedAt time.Time
}

// Session owns one sequencer and the loop every one of its callbacks runs on
type Session struct {
	id        uuid.UUID
	cfg       Config
	loop      *Loop
	clock     clock.Clock
	provider  interview.ScriptProvider
	archive   Archive
	records   repositories.SessionRepository
	logger    *zap.Logger
	createdAt time.Time

	lastActive atomic.Int64
	bg         sync.WaitGroup

	// owned by the loop
	seq         *interview.Sequencer
	terminal    Terminal
	settings    interview.UserSettings
	fetching    bool
	fetchCancel context.CancelFunc
	completed   bool
}

func newSession(
	id uuid.UUID,
	cfg Config,
	clk clock.Clock,
	provider interview.ScriptProvider,
	archive Archive,
	records repositories.SessionRepository,
	logger *zap.Logger,
) *Session {
	s := &Session{
		id:        id,
		cfg:       cfg,
		loop:      NewLoop(),
		clock:     clk,
		provider:  provider,
		archive:   archive,
		records:   records,
		logger:    logger.With(zap.String("session_id", id.String())),
		createdAt: clk.Now(),
		settings:  interview.DefaultSettings(),
	}
	s.touch()
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// LastActive is the time of the latest client event or command
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

func (s *Session) touch() { s.lastActive.Store(s.clock.Now().UnixNano()) }

// Attach binds a terminal and builds the sequencer. A session accepts one
// terminal for its whole life.
func (s *Session) Attach(term Terminal) error {
	var err error
	if doErr := s.loop.Do(func() {
		if s.terminal != nil {
			err = usecaseErrors.ErrSessionAlreadyStarted
			return
		}
		deps := interview.Deps{
			Scheduler:  loopScheduler{loop: s.loop, clock: s.clock},
			Engine:     term,
			Renderer:   term,
			Recognizer: term,
			Media:      term,
			Observer:   &sessionObserver{Observer: term, s: s},
			Logger:     s.logger,
		}
		if s.archive != nil {
			deps.Archiver = archiver{s: s}
		}
		var seq *interview.Sequencer
		seq, err = interview.NewSequencer(s.cfg.Interview, deps)
		if err != nil {
			return
		}
		if err = seq.UpdateSettings(s.settings); err != nil {
			return
		}
		s.seq = seq
		s.terminal = term
	}); doErr != nil {
		return doErr
	}
	if err == nil {
		s.touch()
		s.logger.Info("🔌 Terminal attached")
	}
	return err
}

// Connect attaches term and pumps its events into the session until the
// connection ends. It reports whether the session was abandoned.
func (s *Session) Connect(term Terminal) (bool, error) {
	if err := s.Attach(term); err != nil {
		return false, err
	}
	readErr := term.ReadLoop(s.Dispatch)
	if readErr != nil {
		s.logger.Warn("⚠️ Terminal connection lost", zap.Error(readErr))
	}
	abandoned := !s.Completed()
	if abandoned {
		s.Close()
	}
	return abandoned, readErr
}

// Dispatch queues a client event for the loop
func (s *Session) Dispatch(ev realtime.Event) {
	s.touch()
	if !s.loop.Post(func() { s.handle(ev) }) {
		s.logger.Debug("dropping event for closed session", zap.String("type", ev.Type))
	}
}

func (s *Session) handle(ev realtime.Event) {
	if s.seq == nil {
		return
	}
	var err error
	switch ev.Type {
	case realtime.EvSessionStart:
		err = s.start()
	case realtime.EvSpeechStart:
		s.seq.HandleSpeechStart(ev.UtteranceID)
	case realtime.EvSpeechBoundary:
		s.seq.HandleSpeechBoundary(ev.UtteranceID, ev.Boundary)
	case realtime.EvSpeechEnd:
		s.seq.HandleSpeechEnd(ev.UtteranceID)
	case realtime.EvSpeechError:
		s.seq.HandleSpeechError(ev.UtteranceID, ev.Message)
	case realtime.EvRecognitionResult:
		s.seq.HandleRecognitionResult(ev.Text, ev.Final)
	case realtime.EvRecognitionError:
		s.seq.HandleRecognitionError(ev.Message)
	case realtime.EvMediaReady:
		s.seq.MediaReady()
	case realtime.EvMediaError:
		s.seq.MediaFailed(ev.Message)
	case realtime.EvMuteToggle:
		err = s.seq.ToggleMute()
	case realtime.EvVideoToggle:
		err = s.seq.ToggleVideo()
	case realtime.EvEndRequest:
		err = s.seq.RequestEnd()
	case realtime.EvEndConfirm:
		err = s.seq.ConfirmEnd()
	case realtime.EvEndDecline:
		err = s.seq.DeclineEnd()
	case realtime.EvSettingsUpdate:
		if err = s.seq.UpdateSettings(ev.Settings); err == nil {
			s.settings = s.seq.Settings()
		} else {
			s.terminal.Error("Invalid speech settings")
		}
	}
	if err != nil {
		s.logger.Debug("event rejected", zap.String("type", ev.Type), zap.Error(err))
	}
}

// start fetches the script off the loop and begins the interview on it
func (s *Session) start() error {
	if s.fetching || s.seq.State() != interview.StateIdle {
		return usecaseErrors.ErrSessionAlreadyStarted
	}
	s.fetching = true
	ctx, cancel := context.WithCancel(context.Background())
	s.fetchCancel = cancel

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer cancel()
		script, err := s.fetchScript(ctx)
		s.loop.Post(func() { s.begin(script, err) })
	}()
	return nil
}

func (s *Session) fetchScript(ctx context.Context) (interview.SessionScript, error) {
	var script interview.SessionScript
	attempt := 0
	err := retry.Do(ctx, s.cfg.Retry, func(ctx context.Context) error {
		attempt++
		var err error
		script, err = s.provider.FetchScript(ctx)
		if question.IsPermanent(err) {
			return retry.Permanent(err)
		}
		return err
	}, func(err error, wait time.Duration) {
		s.logger.Warn("🔄 Retrying question fetch",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	return script, err
}

func (s *Session) begin(script interview.SessionScript, err error) {
	s.fetching = false
	s.fetchCancel = nil
	if err != nil {
		s.seq.Fail(err)
		return
	}
	if err := s.seq.Begin(script); err != nil {
		s.logger.Error("❌ Failed to begin interview", zap.Error(err))
		return
	}
	questions := len(script.Questions)
	s.record(func(ctx context.Context) error {
		return s.records.MarkStarted(ctx, s.id, questions, s.clock.Now())
	})
}

// UpdateSettings applies speech settings to the next utterance
func (s *Session) UpdateSettings(settings interview.UserSettings) (interview.UserSettings, error) {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return interview.UserSettings{}, err
	}
	var err error
	if doErr := s.loop.Do(func() {
		if s.seq != nil {
			if err = s.seq.UpdateSettings(settings); err != nil {
				return
			}
		}
		s.settings = settings
	}); doErr != nil {
		return interview.UserSettings{}, doErr
	}
	s.touch()
	return settings, err
}

// Snapshot returns the current session view
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.loop.Do(func() {
		snap = Snapshot{
			ID:        s.id,
			State:     interview.StateIdle,
			Settings:  s.settings,
			Connected: s.terminal != nil,
			CreatedAt: s.createdAt,
		}
		if s.seq == nil {
			return
		}
		snap.State = s.seq.State()
		snap.Cursor = s.seq.Cursor()
		snap.Question = s.seq.CurrentQuestion()
		snap.Remaining = s.seq.Remaining()
		snap.Entries = s.seq.Transcript()
		snap.MicOn = s.seq.MicOn()
		snap.CameraOn = s.seq.CameraOn()
	})
	return snap, err
}

// CompletedTranscript returns the transcript of a completed session
func (s *Session) CompletedTranscript() ([]interview.TranscriptEntry, error) {
	var entries []interview.TranscriptEntry
	var err error
	if doErr := s.loop.Do(func() {
		if s.seq == nil || s.seq.State() != interview.StateCompleted {
			err = usecaseErrors.ErrExportUnavailable
			return
		}
		entries = s.seq.Transcript()
	}); doErr != nil {
		return nil, doErr
	}
	return entries, err
}

// Completed reports whether the interview reached its end
func (s *Session) Completed() bool {
	var done bool
	if err := s.loop.Do(func() { done = s.completed }); err != nil {
		return false
	}
	return done
}

// Close abandons an unfinished session and stops its loop
func (s *Session) Close() {
	var term Terminal
	var abandoned bool
	if err := s.loop.Do(func() {
		if s.fetchCancel != nil {
			s.fetchCancel()
		}
		term = s.terminal
		abandoned = !s.completed
	}); err != nil {
		return
	}
	if abandoned {
		s.logger.Info("🛑 Session abandoned")
		s.record(func(ctx context.Context) error {
			return s.records.MarkEnded(ctx, s.id, entities.SessionStatusAbandoned, 0, s.clock.Now())
		})
	}
	s.loop.Close()
	if term != nil {
		term.Close()
	}
}

// Wait blocks until background archive and record writes finish
func (s *Session) Wait() { s.bg.Wait() }

// record runs a session repository write in the background
func (s *Session) record(write func(ctx context.Context) error) {
	if s.records == nil {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			s.logger.Error("❌ Failed to update session record", zap.Error(err))
		}
	}()
}

// sessionObserver forwards to the terminal and tracks completion
type sessionObserver struct {
	interview.Observer
	s *Session
}

func (o *sessionObserver) ExportReady(entries int) {
	o.s.completed = true
	o.s.record(func(ctx context.Context) error {
		return o.s.records.MarkEnded(ctx, o.s.id, entities.SessionStatusCompleted, entries, o.s.clock.Now())
	})
	o.Observer.ExportReady(entries)
}

// archiver hands completed transcripts to the archive without blocking the loop
type archiver struct {
	s *Session
}

func (a archiver) Archive(entries []interview.TranscriptEntry) {
	s := a.s
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if _, err := s.archive.Archive(ctx, s.id, entries); err != nil {
			s.logger.Error("❌ Failed to archive transcript", zap.Error(err))
		}
	}()
}
