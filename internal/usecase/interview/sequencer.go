package interview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
)

// State is the sequencer position.
type State int

const (
	StateIdle State = iota
	StateIntroducing
	StateAwaitingIntroGap
	StateAskingQuestion
	StateAwaitingAnswerWindow
	StateEnding
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIntroducing:
		return "introducing"
	case StateAwaitingIntroGap:
		return "awaiting_intro_gap"
	case StateAskingQuestion:
		return "asking_question"
	case StateAwaitingAnswerWindow:
		return "awaiting_answer_window"
	case StateEnding:
		return "ending"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Active reports whether an end request is accepted in this state.
func (s State) Active() bool {
	switch s {
	case StateIntroducing, StateAwaitingIntroGap, StateAskingQuestion, StateAwaitingAnswerWindow:
		return true
	}
	return false
}

// Config holds the per-step timing policy.
type Config struct {
	IntroGapSeconds     int
	AnswerWindowSeconds int
	PerWord             time.Duration
	FadeLead            time.Duration
	FadeDuration        time.Duration
	StallGrace          time.Duration
	Language            string
}

func DefaultConfig() Config {
	return Config{
		IntroGapSeconds:     5,
		AnswerWindowSeconds: 20,
		PerWord:             500 * time.Millisecond,
		FadeLead:            time.Second,
		FadeDuration:        time.Second,
		StallGrace:          10 * time.Second,
		Language:            "en-US",
	}
}

// Deps are the collaborators of one sequencer. Scheduler and Engine are
// required; the rest default to no-ops.
type Deps struct {
	Scheduler  Scheduler
	Engine     SpeechEngine
	Renderer   Renderer
	Recognizer Recognizer
	Media      Media
	Observer   Observer
	Archiver   Archiver
	Logger     *zap.Logger
}

// Sequencer runs one interview: introduction, intro gap, then each question
// followed by an answer window, until the questions run out or the user ends
// the session. It is not safe for concurrent use; every method and every
// scheduled callback must run on the same loop.
type Sequencer struct {
	cfg      Config
	observer Observer
	archiver Archiver
	logger   *zap.Logger

	countdown *Countdown
	playback  *Playback
	avatar    *Avatar
	capture   *Capture

	state    State
	prior    State
	script   SessionScript
	cursor   int
	question string
	asking   bool
	answer   string

	transcript Transcript
	settings   UserSettings
}

func NewSequencer(cfg Config, deps Deps) (*Sequencer, error) {
	if deps.Scheduler == nil {
		return nil, errors.New("interview: scheduler is required")
	}
	if deps.Engine == nil {
		return nil, errors.New("interview: speech engine is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Observer == nil {
		deps.Observer = NopObserver{}
	}
	if deps.Renderer == nil {
		deps.Renderer = nopRenderer{}
	}
	if deps.Recognizer == nil {
		deps.Recognizer = nopRecognizer{}
	}
	if deps.Media == nil {
		deps.Media = nopMedia{}
	}

	s := &Sequencer{
		cfg:      cfg,
		observer: deps.Observer,
		archiver: deps.Archiver,
		logger:   deps.Logger,
		settings: DefaultSettings(),
	}
	s.countdown = NewCountdown(deps.Scheduler, s.observer.TimerTick)
	s.playback = NewPlayback(deps.Engine, deps.Scheduler, PlaybackConfig{
		PerWord:    cfg.PerWord,
		FadeLead:   cfg.FadeLead,
		StallGrace: cfg.StallGrace,
		Language:   cfg.Language,
	}, deps.Logger)
	s.avatar = NewAvatar(deps.Renderer, deps.Scheduler, cfg.FadeDuration)
	s.capture = NewCapture(deps.Recognizer, deps.Media, answerBuffer{s}, deps.Observer, deps.Logger)
	return s, nil
}

// Begin starts the interview with a fetched script.
func (s *Sequencer) Begin(script SessionScript) error {
	if s.state != StateIdle {
		return fmt.Errorf("begin in state %s: %w", s.state, usecaseErrors.ErrSessionAlreadyStarted)
	}
	if err := script.Validate(); err != nil {
		s.observer.Error("No introduction available for this interview")
		return err
	}
	s.script = SessionScript{
		Introduction: &DialogItem{Text: script.Introduction.Text},
		Questions:    append([]DialogItem(nil), script.Questions...),
	}
	s.logger.Info("interview started", zap.Int("questions", len(s.script.Questions)))
	s.introduce()
	return nil
}

// Fail reports a script fetch failure. The sequencer stays idle.
func (s *Sequencer) Fail(err error) {
	if s.state != StateIdle {
		return
	}
	s.logger.Error("failed to fetch interview script", zap.Error(err))
	s.observer.Error("Failed to load interview questions. Please try again.")
}

// RequestEnd pauses the interview and asks for confirmation.
func (s *Sequencer) RequestEnd() error {
	if !s.state.Active() {
		return fmt.Errorf("end in state %s: %w", s.state, usecaseErrors.ErrSessionNotActive)
	}
	s.prior = s.state
	s.state = StateEnding
	s.countdown.Pause()
	s.playback.Pause()
	s.observer.StateChanged(s.prior, StateEnding)
	s.observer.EndConfirmationRequired()
	return nil
}

// DeclineEnd resumes playback and countdown from where they were paused.
func (s *Sequencer) DeclineEnd() error {
	if s.state != StateEnding {
		return usecaseErrors.ErrNoEndPending
	}
	s.state = s.prior
	s.observer.StateChanged(StateEnding, s.state)
	s.playback.Resume()
	s.countdown.Resume()
	s.observer.EndCancelled()
	return nil
}

// ConfirmEnd finalizes the session. A partial answer is kept only when the
// session was inside an answer window.
func (s *Sequencer) ConfirmEnd() error {
	if s.state != StateEnding {
		return usecaseErrors.ErrNoEndPending
	}
	if s.prior == StateAwaitingAnswerWindow && s.asking {
		s.flush()
	}
	s.logger.Info("interview ended by user",
		zap.String("from", s.prior.String()),
		zap.Int("entries", s.transcript.Len()))
	s.finish()
	return nil
}

// UpdateSettings applies speech settings from the next utterance on.
func (s *Sequencer) UpdateSettings(settings UserSettings) error {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings = settings
	s.playback.SetSettings(settings)
	return nil
}

func (s *Sequencer) HandleSpeechStart(id string)          { s.playback.HandleStart(id) }
func (s *Sequencer) HandleSpeechBoundary(id, name string) { s.playback.HandleBoundary(id, name) }
func (s *Sequencer) HandleSpeechEnd(id string)            { s.playback.HandleEnd(id) }
func (s *Sequencer) HandleSpeechError(id, message string) { s.playback.HandleError(id, message) }
func (s *Sequencer) HandleRecognitionResult(text string, final bool) {
	s.capture.HandleResult(text, final)
}
func (s *Sequencer) HandleRecognitionError(message string) { s.capture.HandleError(message) }

func (s *Sequencer) MediaReady()                { s.capture.MediaReady() }
func (s *Sequencer) MediaFailed(message string) { s.capture.MediaFailed(message) }
func (s *Sequencer) ToggleMute() error          { return s.capture.ToggleMute() }
func (s *Sequencer) ToggleVideo() error         { return s.capture.ToggleVideo() }

func (s *Sequencer) State() State { return s.state }

// PriorState is the state an Ending session returns to on decline.
func (s *Sequencer) PriorState() State { return s.prior }

func (s *Sequencer) Cursor() int              { return s.cursor }
func (s *Sequencer) CurrentQuestion() string  { return s.question }
func (s *Sequencer) CurrentAnswer() string    { return s.answer }
func (s *Sequencer) Remaining() int           { return s.countdown.Remaining() }
func (s *Sequencer) Settings() UserSettings   { return s.settings }
func (s *Sequencer) AvatarState() AvatarState { return s.avatar.State() }
func (s *Sequencer) MicOn() bool              { return s.capture.MicOn() }
func (s *Sequencer) CameraOn() bool           { return s.capture.CameraOn() }

// Transcript returns a snapshot of the finalized entries.
func (s *Sequencer) Transcript() []TranscriptEntry { return s.transcript.Entries() }

func (s *Sequencer) introduce() {
	s.to(StateIntroducing)
	s.speak(s.script.Introduction.Text, s.introDone)
}

func (s *Sequencer) introDone() {
	s.to(StateAwaitingIntroGap)
	s.startCountdown(s.cfg.IntroGapSeconds, s.introGapElapsed)
}

func (s *Sequencer) introGapElapsed() {
	s.observer.TimerHidden()
	s.askNext()
}

func (s *Sequencer) askNext() {
	if s.cursor >= len(s.script.Questions) {
		s.logger.Info("interview completed", zap.Int("entries", s.transcript.Len()))
		s.finish()
		return
	}
	s.question = s.script.Questions[s.cursor].Text
	s.asking = true
	s.answer = ""
	s.to(StateAskingQuestion)
	s.observer.QuestionShown(s.question)
	s.speak(s.question, s.questionDone)
}

func (s *Sequencer) questionDone() {
	s.to(StateAwaitingAnswerWindow)
	s.startCountdown(s.cfg.AnswerWindowSeconds, s.answerWindowElapsed)
}

func (s *Sequencer) answerWindowElapsed() {
	s.observer.TimerHidden()
	s.flush()
	s.cursor++
	s.askNext()
}

func (s *Sequencer) flush() {
	s.transcript.Append(TranscriptEntry{
		Question: s.question,
		Answer:   strings.TrimSpace(s.answer),
	})
	s.clearQuestion()
}

func (s *Sequencer) clearQuestion() {
	wasAsking := s.asking
	s.question = ""
	s.answer = ""
	s.asking = false
	if wasAsking {
		s.observer.QuestionHidden()
	}
}

func (s *Sequencer) finish() {
	s.countdown.Stop()
	s.playback.Stop()
	s.avatar.Stop()
	s.capture.Stop()
	s.clearQuestion()
	s.observer.TimerHidden()

	from := s.state
	s.state = StateCompleted
	s.prior = StateCompleted
	s.observer.StateChanged(from, StateCompleted)

	entries := s.transcript.Entries()
	if s.archiver != nil && len(entries) > 0 {
		s.archiver.Archive(entries)
	}
	s.observer.ExportReady(len(entries))
}

// to moves to next. While Ending the move is recorded as the state to
// return to on decline.
func (s *Sequencer) to(next State) {
	if s.state == StateEnding {
		s.prior = next
		return
	}
	from := s.state
	s.state = next
	s.observer.StateChanged(from, next)
}

func (s *Sequencer) startCountdown(seconds int, onComplete func()) {
	s.countdown.Start(seconds, onComplete)
	if s.state == StateEnding {
		s.countdown.Pause()
	}
}

func (s *Sequencer) speak(text string, onDone func()) {
	s.avatar.EnterSpeaking()
	_, err := s.playback.Speak(text, s.avatar.BeginFadeToIdle, onDone)
	if err != nil {
		s.logger.Warn("skipping utterance", zap.Error(err))
		s.avatar.Stop()
		if errors.Is(err, usecaseErrors.ErrEmptyUtterance) {
			onDone()
		}
		return
	}
	if s.state == StateEnding {
		s.playback.Pause()
	}
}

type answerBuffer struct{ s *Sequencer }

func (b answerBuffer) QuestionActive() bool { return b.s.asking }

func (b answerBuffer) AppendAnswer(segment string) {
	if b.s.answer == "" {
		b.s.answer = segment
		return
	}
	b.s.answer += " " + segment
}

func (b answerBuffer) ClearAnswer() { b.s.answer = "" }

type nopRenderer struct{}

func (nopRenderer) ShowSpeaking()           {}
func (nopRenderer) CrossFade(time.Duration) {}
func (nopRenderer) ShowIdle()               {}

type nopRecognizer struct{}

func (nopRecognizer) Start() error { return nil }
func (nopRecognizer) Stop() error  { return nil }

type nopMedia struct{}

func (nopMedia) SetAudioEnabled(bool) {}
func (nopMedia) SetVideoEnabled(bool) {}
func (nopMedia) Release()             {}
