package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/mock-interview/errors"
	"github.com/johnquangdev/mock-interview/internal/adapter/dto/transcript"
)

func TestTranscript_SaveAndGet(t *testing.T) {
	srv := newServer(t, false)

	rec := srv.do(t, http.MethodPost, "/v1/transcripts", `{"transcript":"Q: Why this role?\nA: Growth"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var saved transcript.SaveTranscriptResponse
	decode(t, rec, &saved)
	assert.Equal(t, "Transcript saved successfully", saved.Message)
	require.NotEmpty(t, saved.ID)

	rec = srv.do(t, http.MethodGet, "/v1/transcripts/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got transcript.TranscriptResponse
	decode(t, rec, &got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Q: Why this role?\nA: Growth", got.Transcript)
	assert.Nil(t, got.SessionID)
}

func TestTranscript_SaveEmpty(t *testing.T) {
	srv := newServer(t, false)

	for _, body := range []string{`{}`, `{"transcript":"   "}`} {
		rec := srv.do(t, http.MethodPost, "/v1/transcripts", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)

		env := decode(t, rec, nil)
		assert.Equal(t, int(errors.ErrorCode_TRANSCRIPT_EMPTY), env.Code)
		assert.Equal(t, "No transcript provided", env.Message)
	}
}

func TestTranscript_SaveStoreFailure(t *testing.T) {
	srv := newServer(t, false)
	srv.transcripts.saveErr = assert.AnError

	rec := srv.do(t, http.MethodPost, "/v1/transcripts", `{"transcript":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, int(errors.ErrorCode_DB_QUERY_FAILED), decode(t, rec, nil).Code)
}

func TestTranscript_GetErrors(t *testing.T) {
	srv := newServer(t, false)

	rec := srv.do(t, http.MethodGet, "/v1/transcripts/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	id := uuid.New().String()
	rec = srv.do(t, http.MethodGet, "/v1/transcripts/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decode(t, rec, nil)
	assert.Equal(t, int(errors.ErrorCode_TRANSCRIPT_NOT_FOUND), env.Code)
	assert.Equal(t, id, env.Details["transcript_id"])
}
