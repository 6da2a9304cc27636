package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ipskit/internal/session"
)

func TestFetchPatch(t *testing.T) {
	patch := []byte("PATCH\x00\x00\x10\x00\x01\x42EOF")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PatchPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "c0ffee", r.PostForm.Get("seed"))
		assert.Equal(t, "OpBXp10", r.PostForm.Get("flags"))

		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(patch)
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	got, err := c.FetchPatch(context.Background(), session.Options{
		Seed:                "c0ffee",
		OriginalProgression: true,
		DefaultBosses:       true,
		ExpScale:            100,
	})
	require.NoError(t, err)
	assert.Equal(t, patch, got)
}

func TestFetchPatch_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad flags", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPatch(context.Background(), session.Options{Seed: "1", ExpScale: 100})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, "bad flags", statusErr.Body)
	assert.Contains(t, err.Error(), "400 Bad Request")
}

func TestFetchPatch_InvalidOptions(t *testing.T) {
	c := &Client{BaseURL: "http://127.0.0.1:0"}
	_, err := c.FetchPatch(context.Background(), session.Options{ExpScale: 100})
	require.ErrorContains(t, err, "seed is required")

	_, err = c.FetchPatch(context.Background(), session.Options{Seed: "1", ExpScale: 0})
	require.Error(t, err)
}

func TestFetchPatch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL).FetchPatch(ctx, session.Options{Seed: "1", ExpScale: 100})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatusError_NoBody(t *testing.T) {
	err := &StatusError{Code: http.StatusBadGateway}
	assert.Equal(t, "remote: patch service returned 502 Bad Gateway", err.Error())
}
