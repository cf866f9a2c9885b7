package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/realtime"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	"github.com/johnquangdev/mock-interview/pkg/retry"
)

type fakeTerminal struct {
	mu         sync.Mutex
	utterances []interview.Utterance
	commands   []string
	errors     []string

	events    chan realtime.Event
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{
		events: make(chan realtime.Event, 32),
		closed: make(chan struct{}),
	}
}

func (t *fakeTerminal) cmd(name string) {
	t.mu.Lock()
	t.commands = append(t.commands, name)
	t.mu.Unlock()
}

func (t *fakeTerminal) Speak(u interview.Utterance) error {
	t.mu.Lock()
	t.utterances = append(t.utterances, u)
	t.mu.Unlock()
	return nil
}

func (t *fakeTerminal) Cancel()                 { t.cmd("speech.cancel") }
func (t *fakeTerminal) Pause()                  { t.cmd("speech.pause") }
func (t *fakeTerminal) Resume()                 { t.cmd("speech.resume") }
func (t *fakeTerminal) ShowSpeaking()           { t.cmd("avatar.speaking") }
func (t *fakeTerminal) CrossFade(time.Duration) { t.cmd("avatar.fade") }
func (t *fakeTerminal) ShowIdle()               { t.cmd("avatar.idle") }
func (t *fakeTerminal) SetAudioEnabled(bool)    { t.cmd("media.audio") }
func (t *fakeTerminal) SetVideoEnabled(bool)    { t.cmd("media.video") }
func (t *fakeTerminal) Release()                { t.cmd("media.release") }

func (t *fakeTerminal) QuestionShown(string)                          {}
func (t *fakeTerminal) QuestionHidden()                               {}
func (t *fakeTerminal) TimerTick(int)                                 {}
func (t *fakeTerminal) TimerHidden()                                  {}
func (t *fakeTerminal) StateChanged(interview.State, interview.State) {}
func (t *fakeTerminal) EndConfirmationRequired()                      { t.cmd("end.confirm_required") }
func (t *fakeTerminal) EndCancelled()                                 { t.cmd("end.cancelled") }
func (t *fakeTerminal) ExportReady(int)                               { t.cmd("export.ready") }
func (t *fakeTerminal) MuteChanged(bool)                              {}
func (t *fakeTerminal) VideoChanged(bool)                             {}

func (t *fakeTerminal) Start() error {
	t.cmd("recognition.start")
	return nil
}

func (t *fakeTerminal) Stop() error {
	t.cmd("recognition.stop")
	return nil
}

func (t *fakeTerminal) Error(message string) {
	t.mu.Lock()
	t.errors = append(t.errors, message)
	t.mu.Unlock()
}

func (t *fakeTerminal) ReadLoop(handle func(realtime.Event)) error {
	for {
		select {
		case ev := <-t.events:
			handle(ev)
		case <-t.closed:
			return nil
		}
	}
}

func (t *fakeTerminal) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

func (t *fakeTerminal) send(ev realtime.Event) { t.events <- ev }

func (t *fakeTerminal) spoken() []interview.Utterance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]interview.Utterance(nil), t.utterances...)
}

func (t *fakeTerminal) errorCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.errors)
}

func (t *fakeTerminal) has(command string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.commands {
		if c == command {
			return true
		}
	}
	return false
}

type fakeProvider struct {
	mu     sync.Mutex
	script interview.SessionScript
	err    error
	calls  int
}

func (p *fakeProvider) FetchScript(ctx context.Context) (interview.SessionScript, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.script, p.err
}

func (p *fakeProvider) set(script interview.SessionScript, err error) {
	p.mu.Lock()
	p.script, p.err = script, err
	p.mu.Unlock()
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeArchive struct {
	mu        sync.Mutex
	sessionID uuid.UUID
	entries   []interview.TranscriptEntry
}

func (a *fakeArchive) Archive(ctx context.Context, sessionID uuid.UUID, entries []interview.TranscriptEntry) (*entities.ArchivedTranscript, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessionID = sessionID
	a.entries = entries
	return &entities.ArchivedTranscript{ID: uuid.New()}, nil
}

type fakeRecords struct {
	mu        sync.Mutex
	created   []uuid.UUID
	questions int
	status    entities.SessionStatus
	entries   int
}

func (r *fakeRecords) Create(ctx context.Context, s *entities.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, s.ID)
	r.status = s.Status
	return nil
}

func (r *fakeRecords) FindByID(ctx context.Context, id uuid.UUID) (*entities.InterviewSession, error) {
	return nil, entities.ErrSessionNotFound
}

func (r *fakeRecords) MarkStarted(ctx context.Context, id uuid.UUID, questionCount int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == entities.SessionStatusCreated {
		r.status = entities.SessionStatusRunning
	}
	r.questions = questionCount
	return nil
}

func (r *fakeRecords) MarkEnded(ctx context.Context, id uuid.UUID, status entities.SessionStatus, entryCount int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.entries = entryCount
	return nil
}

func (r *fakeRecords) snapshot() (entities.SessionStatus, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.questions, r.entries
}

func testConfig() Config {
	icfg := interview.DefaultConfig()
	icfg.IntroGapSeconds = 0
	icfg.AnswerWindowSeconds = 1
	icfg.StallGrace = 0
	return Config{
		Interview: icfg,
		Retry: retry.Policy{
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
			MaxElapsedTime:  time.Second,
			MaxRetries:      2,
		},
		IdleTimeout: time.Minute,
	}
}

func exampleScript() interview.SessionScript {
	return interview.SessionScript{
		Introduction: &interview.DialogItem{Text: "Welcome"},
		Questions: []interview.DialogItem{
			{Text: "Tell me about yourself"},
			{Text: "Why this role?"},
		},
	}
}
