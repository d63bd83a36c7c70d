package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/polyphonic/polyphonic/internal/shared"
)

// FetchFunc downloads media bytes for the cache. Implementations wrap the
// protocol client so the cache stays independent of it.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache manages the cover art and audio cache directories.
type Cache struct {
	coverDir string
	audioDir string
	logger   *log.Logger
}

// NewCache creates both cache directories if needed.
func NewCache(coverDir, audioDir string, logger *log.Logger) (*Cache, error) {
	if coverDir == "" || audioDir == "" {
		return nil, fmt.Errorf("cache directories cannot be empty")
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	for _, dir := range []string{coverDir, audioDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}
	return &Cache{coverDir: coverDir, audioDir: audioDir, logger: logger}, nil
}

// CoverPath returns the cached file for a cover id, matching any extension.
// Returns shared.ErrNotCached when no file exists.
func (c *Cache) CoverPath(coverID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(c.coverDir, coverID+".*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("%w: cover %s", shared.ErrNotCached, coverID)
	}
	return matches[0], nil
}

// FetchCoverArt stores cover art for coverID unless any {coverID}.* file
// already exists. Returns the stored filename, or "" on a cache hit.
//
// The container format is sniffed from the downloaded bytes. A sniff
// failure triggers exactly one re-download before falling back to png; the
// retry is a guard against a truncated first read, not a guarantee, so an
// occasional wrongly-extensioned file is tolerated downstream.
func (c *Cache) FetchCoverArt(ctx context.Context, coverID string, fetch FetchFunc) (string, error) {
	if _, err := c.CoverPath(coverID); err == nil {
		return "", nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	ext, sniffErr := DetectImageFormat(data)
	if sniffErr != nil {
		c.logger.Debug("cover art sniff failed, retrying download", "cover", coverID, "err", sniffErr)
		if retried, err := fetch(ctx); err == nil {
			data = retried
			ext, sniffErr = DetectImageFormat(data)
		}
	}
	if sniffErr != nil {
		ext = DefaultImageExt
	}

	name := coverID + "." + ext
	path := filepath.Join(c.coverDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	return name, nil
}

// AudioPath returns the cached audio file for a song id and extension, or
// shared.ErrNotCached when absent.
func (c *Cache) AudioPath(songID, ext string) (string, error) {
	path := filepath.Join(c.audioDir, songID+"."+ext)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: song %s", shared.ErrNotCached, songID)
	}
	return path, nil
}

// StreamSongToFile returns the cached audio file for a song, downloading and
// writing it first when absent. The write goes through a temp file and
// rename so readers never observe a partial download.
func (c *Cache) StreamSongToFile(ctx context.Context, songID, ext string, fetch FetchFunc) (string, error) {
	path := filepath.Join(c.audioDir, songID+"."+ext)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(c.audioDir, songID+".*.part")
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}

	c.logger.Debug("cached audio", "song", songID, "path", path)
	return path, nil
}
