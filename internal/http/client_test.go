package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "test-agent/1.0"})
	body, err := c.GetString(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "hello", body)
	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "test-agent/1.0", c.UserAgent())
}

func TestClient_DefaultUserAgent(t *testing.T) {
	assert.Equal(t, DefaultUserAgent, NewClient(Options{}).UserAgent())
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 3, RetryDelay: time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 3, RetryDelay: time.Millisecond})
	body, err := c.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 2, RetryDelay: time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewClient(Options{RequestInterval: 50 * time.Millisecond})
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	// The first request is free; the next two wait for a token each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestClient_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Options{}).Get(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry(t *testing.T) {
	t.Run("non-retryable returns immediately", func(t *testing.T) {
		calls := 0
		want := errors.New("boom")
		err := Retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		err := Retry(ctx, 5, time.Hour, func() error {
			cancel()
			return &RetryableError{Err: errors.New("transient")}
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
