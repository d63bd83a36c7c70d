package media

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeAudioFile(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write audio fixture: %v", err)
	}
	return path
}

func serveWithRange(t *testing.T, path, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/audio/s-1", nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	ServeRange(rec, req, path)
	return rec
}

func TestServeRange(t *testing.T) {
	path := writeAudioFile(t, 1000)

	t.Run("no range returns whole file", func(t *testing.T) {
		rec := serveWithRange(t, path, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
			t.Errorf("expected Accept-Ranges: bytes, got %q", got)
		}
		if rec.Body.Len() != 1000 {
			t.Errorf("expected 1000 bytes, got %d", rec.Body.Len())
		}
		if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
			t.Errorf("expected audio/mpeg, got %q", got)
		}
	})

	t.Run("bytes=200-299 returns exactly that slice", func(t *testing.T) {
		rec := serveWithRange(t, path, "bytes=200-299")

		if rec.Code != http.StatusPartialContent {
			t.Fatalf("expected 206, got %d", rec.Code)
		}
		if rec.Body.Len() != 100 {
			t.Errorf("expected 100 bytes, got %d", rec.Body.Len())
		}
		if got := rec.Header().Get("Content-Range"); got != "bytes 200-299/1000" {
			t.Errorf("unexpected Content-Range %q", got)
		}
		if rec.Body.Bytes()[0] != byte(200%251) {
			t.Error("slice does not start at requested offset")
		}
	})

	t.Run("open-ended range runs to the last byte", func(t *testing.T) {
		rec := serveWithRange(t, path, "bytes=900-")

		if rec.Code != http.StatusPartialContent {
			t.Fatalf("expected 206, got %d", rec.Code)
		}
		if rec.Body.Len() != 100 {
			t.Errorf("expected 100 bytes, got %d", rec.Body.Len())
		}
		if got := rec.Header().Get("Content-Range"); got != "bytes 900-999/1000" {
			t.Errorf("unexpected Content-Range %q", got)
		}
	})

	t.Run("end past file size is clamped", func(t *testing.T) {
		rec := serveWithRange(t, path, "bytes=990-5000")

		if rec.Code != http.StatusPartialContent {
			t.Fatalf("expected 206, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Range"); got != "bytes 990-999/1000" {
			t.Errorf("unexpected Content-Range %q", got)
		}
	})

	t.Run("start past file size is unsatisfiable", func(t *testing.T) {
		rec := serveWithRange(t, path, "bytes=2000-")

		if rec.Code != http.StatusRequestedRangeNotSatisfiable {
			t.Fatalf("expected 416, got %d", rec.Code)
		}
	})

	t.Run("missing file is a 404", func(t *testing.T) {
		rec := serveWithRange(t, filepath.Join(t.TempDir(), "gone.mp3"), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestContentTypes(t *testing.T) {
	audio := map[string]string{
		"mp3":  "audio/mpeg",
		"flac": "audio/flac",
		"ogg":  "audio/ogg",
		"m4a":  "audio/mp4",
		"wav":  "audio/wav",
		"xyz":  "audio/mpeg",
	}
	for ext, want := range audio {
		if got := AudioContentType(ext); got != want {
			t.Errorf("AudioContentType(%s) = %s, want %s", ext, got, want)
		}
	}

	if got := ImageContentType("jpg"); got != "image/jpeg" {
		t.Errorf("ImageContentType(jpg) = %s", got)
	}
	if got := ImageContentType("bin"); got != "application/octet-stream" {
		t.Errorf("ImageContentType(bin) = %s", got)
	}
}
