package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/polyphonic/polyphonic/internal/media"
	"github.com/polyphonic/polyphonic/internal/shared"
)

// Streamer resolves a song to a local audio file, pulling it into the cache
// on first access.
type Streamer interface {
	StreamSong(ctx context.Context, songID string) (string, error)
}

// MediaHandler serves cached cover art and audio to a playback front-end.
//
// Covers are served straight from the cover cache; a cover the sync pass
// never stored is a 404, not a remote fetch. Audio goes through the
// Streamer so the first play of a song populates the audio cache.
type MediaHandler struct {
	cache    *media.Cache
	streamer Streamer
	logger   *log.Logger
}

// NewMediaHandler creates a handler over the media cache and stream resolver.
func NewMediaHandler(cache *media.Cache, streamer Streamer, logger *log.Logger) *MediaHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MediaHandler{cache: cache, streamer: streamer, logger: logger}
}

// Routes implements [Handler].
func (h *MediaHandler) Routes() []string {
	return []string{
		"GET /covers/{id}",
		"GET /audio/{id}",
	}
}

// ServeHTTP dispatches to the cover or audio endpoint by path.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/covers/"):
		h.serveCover(w, r)
	case strings.HasPrefix(r.URL.Path, "/audio/"):
		h.serveAudio(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *MediaHandler) serveCover(w http.ResponseWriter, r *http.Request) {
	coverID := r.PathValue("id")

	path, err := h.cache.CoverPath(coverID)
	if err != nil {
		http.Error(w, "Cover not found", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		h.logger.Error("failed to read cached cover", "cover", coverID, "err", err)
		http.Error(w, "Failed to read cover", http.StatusInternalServerError)
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	w.Header().Set("Content-Type", media.ImageContentType(ext))
	w.Write(data)
}

func (h *MediaHandler) serveAudio(w http.ResponseWriter, r *http.Request) {
	songID := r.PathValue("id")

	path, err := h.streamer.StreamSong(r.Context(), songID)
	if err != nil {
		if errors.Is(err, shared.ErrNotCached) {
			http.Error(w, "Unknown song", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to resolve audio", "song", songID, "err", err)
		http.Error(w, "Failed to fetch audio", http.StatusBadGateway)
		return
	}

	media.ServeRange(w, r, path)
}
