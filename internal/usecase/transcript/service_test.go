package transcript

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/mock-interview/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	"github.com/johnquangdev/mock-interview/pkg/retry"
)

type fakeTranscriptRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*entities.ArchivedTranscript
	createErrs []error
	creates    int
	purges     int
}

func newFakeRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{rows: map[uuid.UUID]*entities.ArchivedTranscript{}}
}

func (r *fakeTranscriptRepo) Create(ctx context.Context, t *entities.ArchivedTranscript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		return err
	}
	r.rows[t.ID] = t
	return nil
}

func (r *fakeTranscriptRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ArchivedTranscript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok {
		return nil, entities.ErrTranscriptNotFound
	}
	return t, nil
}

func (r *fakeTranscriptRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purges++
	var n int64
	for id, t := range r.rows {
		if t.IsExpired(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeTranscriptRepo) purgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.purges
}

func fastPolicy() retry.Policy {
	return retry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  time.Second,
		MaxRetries:      3,
	}
}

func TestTranscriptService_Save(t *testing.T) {
	clk := clock.NewMock()
	repo := newFakeRepo()
	svc := NewTranscriptService(repo, clk, 24*time.Hour, fastPolicy(), nil)

	saved, err := svc.Save(context.Background(), "  Q: hi\nA: hello  ")
	require.NoError(t, err)
	assert.Equal(t, "Q: hi\nA: hello", saved.Text)
	assert.Equal(t, clk.Now().Add(24*time.Hour), saved.ExpiresAt)
	assert.Contains(t, repo.rows, saved.ID)
}

func TestTranscriptService_SaveEmpty(t *testing.T) {
	svc := NewTranscriptService(newFakeRepo(), clock.NewMock(), time.Hour, fastPolicy(), nil)

	_, err := svc.Save(context.Background(), " \n\t ")
	assert.ErrorIs(t, err, usecaseErrors.ErrEmptyTranscript)
}

func TestTranscriptService_ArchiveRetriesTransientFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{errors.New("connection reset by peer")}
	svc := NewTranscriptService(repo, clock.NewMock(), time.Hour, fastPolicy(), nil)
	sessionID := uuid.New()

	archived, err := svc.Archive(context.Background(), sessionID, []interview.TranscriptEntry{
		{Question: "Tell me about yourself", Answer: "I am a developer"},
		{Question: "Why this role?", Answer: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.creates)
	require.NotNil(t, archived.SessionID)
	assert.Equal(t, sessionID, *archived.SessionID)
	assert.Contains(t, archived.Text, "A: No response")
	assert.Len(t, archived.Pairs(), 2)
}

func TestTranscriptService_ArchivePermanentFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{errors.New("validation failed: text")}
	svc := NewTranscriptService(repo, clock.NewMock(), time.Hour, fastPolicy(), nil)

	_, err := svc.Archive(context.Background(), uuid.New(), []interview.TranscriptEntry{{Question: "q", Answer: "a"}})
	require.Error(t, err)
	assert.Equal(t, 1, repo.creates)
}

func TestTranscriptService_ArchiveEmpty(t *testing.T) {
	svc := NewTranscriptService(newFakeRepo(), clock.NewMock(), time.Hour, fastPolicy(), nil)

	_, err := svc.Archive(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrEmptyTranscript)
}

func TestTranscriptService_GetHidesExpired(t *testing.T) {
	clk := clock.NewMock()
	svc := NewTranscriptService(newFakeRepo(), clk, time.Hour, fastPolicy(), nil)
	ctx := context.Background()

	saved, err := svc.Save(ctx, "text")
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	clk.Add(time.Hour)
	_, err = svc.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrTranscriptNotFound)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, usecaseErrors.ErrTranscriptNotFound)
}

func TestTranscriptService_PurgeExpired(t *testing.T) {
	clk := clock.NewMock()
	repo := newFakeRepo()
	svc := NewTranscriptService(repo, clk, time.Hour, fastPolicy(), nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, "old")
	require.NoError(t, err)
	clk.Add(30 * time.Minute)
	_, err = svc.Save(ctx, "new")
	require.NoError(t, err)
	clk.Add(45 * time.Minute)

	deleted, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.rows, 1)
}

func TestTranscriptService_PurgeWorker(t *testing.T) {
	clk := clock.NewMock()
	repo := newFakeRepo()
	svc := NewTranscriptService(repo, clk, time.Hour, fastPolicy(), nil)

	require.NoError(t, svc.StartPurgeWorker(context.Background(), time.Minute))
	assert.Error(t, svc.StartPurgeWorker(context.Background(), time.Minute))

	require.Eventually(t, func() bool {
		clk.Add(time.Minute)
		return repo.purgeCount() > 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.StopPurgeWorker())
	assert.Error(t, svc.StopPurgeWorker())
}
