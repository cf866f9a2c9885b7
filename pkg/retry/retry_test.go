package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  time.Second,
		MaxRetries:      3,
	}
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	notified := 0
	err := Do(context.Background(), fastPolicy(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}, func(error, time.Duration) { notified++ })

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, notified)
}

func TestDo_StopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	sentinel := errors.New("no introduction dialog found")
	err := Do(context.Background(), fastPolicy(), func(context.Context) error {
		attempts++
		return fmt.Errorf("fetch script: %w", sentinel)
	}, nil)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(), func(context.Context) error {
		attempts++
		return Permanent(errors.New("service unavailable"))
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(), func(context.Context) error {
		attempts++
		return errors.New("status 503: service unavailable")
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 4, attempts)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, fastPolicy(), func(context.Context) error {
		attempts++
		return nil
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 0, attempts)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"server error", errors.New("unexpected status 502: bad gateway"), true},
		{"rate limit", errors.New("429 too many requests"), true},
		{"not found", errors.New("unexpected status 404"), false},
		{"malformed", errors.New("malformed payload"), false},
		{"permanent", Permanent(errors.New("connection refused")), false},
		{"unknown", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

func TestPolicy_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultPolicy(), Policy{}.WithDefaults())

	p := Policy{MaxRetries: 1, MaxInterval: time.Second}.WithDefaults()
	assert.Equal(t, uint64(1), p.MaxRetries)
	assert.Equal(t, time.Second, p.MaxInterval)
	assert.Equal(t, DefaultPolicy().InitialInterval, p.InitialInterval)
	assert.Equal(t, DefaultPolicy().MaxElapsedTime, p.MaxElapsedTime)
}
