package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(retries int) *Client {
	return New(Config{
		Provider:        "test",
		Timeout:         2 * time.Second,
		Retries:         retries,
		InitialInterval: time.Millisecond,
	}, zap.NewNop())
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"name":"Pepe"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, newTestClient(0).GetJSON(context.Background(), "token", srv.URL+"/api/token/x", &out))
	assert.Equal(t, "Pepe", out.Name)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "collectCreatorFee", in["action"])
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out map[string]bool
	err := newTestClient(0).PostJSON(context.Background(), "trade", srv.URL, map[string]string{"action": "collectCreatorFee"}, &out)
	require.NoError(t, err)
	assert.True(t, out["ok"])
}

func TestClientErrorStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad wallet"))
	}))
	defer srv.Close()

	err := newTestClient(3).GetJSON(context.Background(), "token", srv.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamStatus))
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad wallet", se.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"v":1}`))
	}))
	defer srv.Close()

	var out map[string]int
	require.NoError(t, newTestClient(3).GetJSON(context.Background(), "retry", srv.URL, &out))
	assert.Equal(t, 1, out["v"])
	assert.Equal(t, int32(3), calls.Load())
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := newTestClient(0).GetJSON(context.Background(), "decode", srv.URL, &out)
	assert.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestClient(2).GetJSON(ctx, "cancel", "http://127.0.0.1:1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestBoundedByContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	var out map[string]interface{}
	err := newTestClient(0).GetJSON(ctx, "slow", srv.URL, &out)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAttemptTimeout(t *testing.T) {
	c := newTestClient(0)

	timeout, ok := c.attemptTimeout(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	timeout, ok = c.attemptTimeout(ctx)
	assert.True(t, ok)
	assert.LessOrEqual(t, timeout, 50*time.Millisecond)

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	_, ok = c.attemptTimeout(expired)
	assert.False(t, ok)
}
