package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/polyphonic/polyphonic/internal/media"
	"github.com/polyphonic/polyphonic/internal/shared"
)

type stubStreamer struct {
	paths map[string]string
	err   error
	calls int
}

func (s *stubStreamer) StreamSong(ctx context.Context, songID string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	path, ok := s.paths[songID]
	if !ok {
		return "", fmt.Errorf("%w: song %s", shared.ErrNotCached, songID)
	}
	return path, nil
}

func newTestRouter(t *testing.T, streamer Streamer) (*BasicRouter, *media.Cache, string) {
	t.Helper()

	coverDir := t.TempDir()
	cache, err := media.NewCache(coverDir, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	router := NewBasicRouter()
	router.Use(Logging(shared.NewLogger(io.Discard)))
	router.Handler(NewMediaHandler(cache, streamer, nil))
	return router, cache, coverDir
}

func TestServeCover(t *testing.T) {
	router, _, coverDir := newTestRouter(t, &stubStreamer{})

	jpeg := append([]byte{0xFF, 0xD8, 0xFF}, []byte("cover-bytes")...)
	if err := os.WriteFile(filepath.Join(coverDir, "cov-1.jpg"), jpeg, 0644); err != nil {
		t.Fatalf("failed to write cover fixture: %v", err)
	}

	t.Run("cached cover", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/covers/cov-1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("expected image/jpeg, got %q", ct)
		}
		if rec.Body.Len() != len(jpeg) {
			t.Errorf("body length %d, want %d", rec.Body.Len(), len(jpeg))
		}
	})

	t.Run("unknown cover", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/covers/missing", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/covers/cov-1", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestServeAudio(t *testing.T) {
	audioDir := t.TempDir()
	audioPath := filepath.Join(audioDir, "s-1.mp3")
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := os.WriteFile(audioPath, payload, 0644); err != nil {
		t.Fatalf("failed to write audio fixture: %v", err)
	}

	streamer := &stubStreamer{paths: map[string]string{"s-1": audioPath}}
	router, _, _ := newTestRouter(t, streamer)

	t.Run("full file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/s-1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("Accept-Ranges") != "bytes" {
			t.Error("Accept-Ranges not advertised")
		}
		if rec.Header().Get("Content-Type") != "audio/mpeg" {
			t.Errorf("content type %q", rec.Header().Get("Content-Type"))
		}
		if rec.Body.Len() != 1000 {
			t.Errorf("body length %d", rec.Body.Len())
		}
	})

	t.Run("byte range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/audio/s-1", nil)
		req.Header.Set("Range", "bytes=200-299")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusPartialContent {
			t.Fatalf("expected 206, got %d", rec.Code)
		}
		if cr := rec.Header().Get("Content-Range"); cr != "bytes 200-299/1000" {
			t.Errorf("content range %q", cr)
		}
		if rec.Body.Len() != 100 {
			t.Errorf("body length %d", rec.Body.Len())
		}
	})

	t.Run("unknown song", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/nope", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("remote failure", func(t *testing.T) {
		failing := &stubStreamer{err: fmt.Errorf("%w: connection refused", shared.ErrTransport)}
		router, _, _ := newTestRouter(t, failing)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/s-1", nil))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})
}

func TestServerLifecycle(t *testing.T) {
	router := NewBasicRouter()
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	srv := New(shared.ServerConfig{Host: "127.0.0.1", Port: 0}, router, shared.NewLogger(io.Discard))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of an unstarted server should be clean: %v", err)
	}
}
