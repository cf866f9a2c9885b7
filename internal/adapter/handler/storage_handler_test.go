package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/mock-interview/errors"
)

func TestStorage_BucketInfo(t *testing.T) {
	srv := newServer(t, true)

	rec := srv.do(t, http.MethodGet, "/v1/storage/info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]interface{}
	decode(t, rec, &info)
	assert.Equal(t, "mock-interview", info["bucket"])
	assert.Equal(t, true, info["bucket_exists"])
}

func TestStorage_BucketInfoFailure(t *testing.T) {
	srv := newServer(t, true)
	srv.bucket.err = assert.AnError

	rec := srv.do(t, http.MethodGet, "/v1/storage/info", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, int(errors.ErrorCode_INTEGRATION_STORAGE_FAILED), decode(t, rec, nil).Code)
}

func TestStorage_ListExports(t *testing.T) {
	srv := newServer(t, true)
	id := uuid.New().String()
	srv.bucket.files = []string{"transcripts/" + id + "/interview-transcript.pdf"}

	rec := srv.do(t, http.MethodGet, "/v1/storage/exports?session_id="+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Files  []string `json:"files"`
		Count  int      `json:"count"`
		Prefix string   `json:"prefix"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "transcripts/"+id+"/", body.Prefix)
	assert.Equal(t, "transcripts/"+id+"/", srv.bucket.prefix)

	rec = srv.do(t, http.MethodGet, "/v1/storage/exports?session_id=nope", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorage_Disabled(t *testing.T) {
	srv := newServer(t, false)

	for _, target := range []string{"/v1/storage/info", "/v1/storage/exports"} {
		rec := srv.do(t, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotImplemented, rec.Code, target)
	}
}

func TestRouter_HealthCheck(t *testing.T) {
	srv := newServer(t, false)
	createSession(t, srv)

	rec := srv.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, float64(1), body["sessions"])
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	srv := newServer(t, false)

	rec := srv.do(t, http.MethodGet, "/v1/sessions/"+uuid.New().String(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
