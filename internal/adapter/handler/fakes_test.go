package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	questionUsecase "github.com/johnquangdev/mock-interview/internal/usecase/question"
	sessionUsecase "github.com/johnquangdev/mock-interview/internal/usecase/session"
	"github.com/johnquangdev/mock-interview/pkg/config"
	"github.com/johnquangdev/mock-interview/pkg/retry"
	"github.com/johnquangdev/mock-interview/pkg/validator"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Info    string            `json:"info"`
	Details map[string]string `json:"details"`
}

type fakeQuestionService struct {
	set     *questionUsecase.QuestionSet
	err     error
	created []questionUsecase.CreateDialogInput
}

func (f *fakeQuestionService) FetchScript(ctx context.Context) (interview.SessionScript, error) {
	if f.err != nil {
		return interview.SessionScript{}, f.err
	}
	script := interview.SessionScript{Introduction: &interview.DialogItem{Text: f.set.Introduction.Text}}
	for _, q := range f.set.Questions {
		script.Questions = append(script.Questions, interview.DialogItem{Text: q.Text})
	}
	return script, nil
}

func (f *fakeQuestionService) GetQuestions(ctx context.Context) (*questionUsecase.QuestionSet, error) {
	return f.set, f.err
}

func (f *fakeQuestionService) CreateDialog(ctx context.Context, input questionUsecase.CreateDialogInput) (*entities.Dialog, error) {
	if input.Category == "" || input.Text == "" {
		return nil, usecaseErrors.ErrInvalidDialog
	}
	f.created = append(f.created, input)
	return entities.NewDialog(input.Category, input.Text), nil
}

type fakeTranscriptService struct {
	mu      sync.Mutex
	saved   map[uuid.UUID]*entities.ArchivedTranscript
	saveErr error
}

func newFakeTranscriptService() *fakeTranscriptService {
	return &fakeTranscriptService{saved: make(map[uuid.UUID]*entities.ArchivedTranscript)}
}

func (f *fakeTranscriptService) Save(ctx context.Context, text string) (*entities.ArchivedTranscript, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return nil, usecaseErrors.ErrEmptyTranscript
	}
	t := entities.NewArchivedTranscript(text, nil, time.Now(), 24*time.Hour)
	f.mu.Lock()
	f.saved[t.ID] = t
	f.mu.Unlock()
	return t, nil
}

func (f *fakeTranscriptService) Archive(ctx context.Context, sessionID uuid.UUID, entries []interview.TranscriptEntry) (*entities.ArchivedTranscript, error) {
	pairs := make([]entities.TranscriptPair, len(entries))
	for i, e := range entries {
		pairs[i] = entities.TranscriptPair{Question: e.Question, Answer: e.Answer}
	}
	t := entities.NewArchivedTranscript(interview.FormatText(entries), pairs, time.Now(), 24*time.Hour).WithSession(sessionID)
	f.mu.Lock()
	f.saved[t.ID] = t
	f.mu.Unlock()
	return t, nil
}

func (f *fakeTranscriptService) Get(ctx context.Context, id uuid.UUID) (*entities.ArchivedTranscript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.saved[id]
	if !ok {
		return nil, usecaseErrors.ErrTranscriptNotFound
	}
	return t, nil
}

func (f *fakeTranscriptService) PurgeExpired(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeTranscriptService) StartPurgeWorker(ctx context.Context, interval time.Duration) error {
	return nil
}

func (f *fakeTranscriptService) StopPurgeWorker() error { return nil }

type fakeUploader struct {
	objects map[string][]byte
	err     error
}

func (u *fakeUploader) UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[objectName] = data
	return "https://files.example.com/" + objectName, nil
}

type fakeBucket struct {
	files  []string
	prefix string
	err    error
}

func (b *fakeBucket) GetBucketInfo(ctx context.Context) (map[string]interface{}, error) {
	if b.err != nil {
		return nil, b.err
	}
	return map[string]interface{}{"bucket": "mock-interview", "bucket_exists": true}, nil
}

func (b *fakeBucket) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	b.prefix = prefix
	return b.files, b.err
}

type fakeRenderer struct{}

func (fakeRenderer) Render(entries []interview.TranscriptEntry, w io.Writer) error {
	_, err := w.Write([]byte("%PDF-1.3 fake"))
	return err
}

// server wires every handler behind the real router
type server struct {
	echo        *echo.Echo
	questions   *fakeQuestionService
	transcripts *fakeTranscriptService
	uploader    *fakeUploader
	bucket      *fakeBucket
	manager     *sessionUsecase.Manager
	clk         *clock.Mock
}

func newServer(t *testing.T, withStorage bool) *server {
	t.Helper()
	srv := &server{
		questions: &fakeQuestionService{set: &questionUsecase.QuestionSet{
			Introduction: entities.NewDialog(entities.CategoryIntroduction, "Welcome"),
			Questions: []*entities.Dialog{
				entities.NewDialog("general", "Tell me about yourself"),
				entities.NewDialog("general", "Why this role?"),
			},
		}},
		transcripts: newFakeTranscriptService(),
		clk:         clock.NewMock(),
	}

	icfg := interview.DefaultConfig()
	icfg.IntroGapSeconds = 0
	icfg.AnswerWindowSeconds = 1
	icfg.StallGrace = 0
	srv.manager = sessionUsecase.NewManager(sessionUsecase.Config{
		Interview: icfg,
		Retry: retry.Policy{
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
			MaxElapsedTime:  time.Second,
			MaxRetries:      1,
		},
		IdleTimeout: time.Hour,
	}, srv.questions, srv.transcripts, nil, srv.clk, nil)
	t.Cleanup(srv.manager.Shutdown)

	var uploader sessionUsecase.Uploader
	var storageHandler *Storage
	if withStorage {
		srv.uploader = &fakeUploader{}
		srv.bucket = &fakeBucket{}
		uploader = srv.uploader
		storageHandler = NewStorageHandler(srv.bucket, nil)
	} else {
		storageHandler = NewStorageHandler(nil, nil)
	}
	exporter := sessionUsecase.NewExporter(fakeRenderer{}, uploader, nil)

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	e := echo.New()
	e.Validator = validator.New()
	NewRouter(cfg,
		NewQuestionHandler(srv.questions, nil),
		NewTranscriptHandler(srv.transcripts, nil),
		NewSessionHandler(srv.manager, exporter, "en-US", []string{"*"}, nil),
		storageHandler,
		srv.manager.Len,
	).Setup(e)
	srv.echo = e
	return srv
}

func (s *server) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
