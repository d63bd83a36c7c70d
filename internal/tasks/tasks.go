package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/polyphonic/polyphonic/internal/credentials"
	"github.com/polyphonic/polyphonic/internal/media"
	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/repositories"
	"github.com/polyphonic/polyphonic/internal/shared"
	"github.com/polyphonic/polyphonic/internal/subsonic"
)

// StageCount tallies one fan-out stage of a sync pass.
type StageCount struct {
	Fetched int // Items fetched successfully
	Failed  int // Items that errored and were skipped
}

// SyncResult contains the outcome of one library's sync pass.
type SyncResult struct {
	LibraryID string

	Artists   StageCount
	Albums    StageCount
	Songs     StageCount
	CoverArt  StageCount
	Playlists StageCount

	Inserted int // Rows newly inserted across all kinds
	Pruned   int // Rows deleted across all kinds

	// Kinds whose prune half was skipped because an upstream fetch failure
	// left their desired id set incomplete.
	PruneSkipped []string
}

// SyncEngine defines the orchestration operations over configured libraries.
type SyncEngine interface {
	// Run performs a full sync pass for one library: fetch the remote
	// catalog, transform it, and reconcile the local mirror against it.
	Run(ctx context.Context, progress chan<- ProgressUpdate, libraryID string) (*SyncResult, error)

	// RunAll syncs every configured library in sequence. One library's
	// failure never aborts another's pass.
	RunAll(ctx context.Context, progress chan<- ProgressUpdate) ([]SyncResult, error)

	// PlaylistSongs resolves a playlist's current entries live from the
	// remote; membership is never persisted locally.
	PlaylistSongs(ctx context.Context, libraryID, playlistID string) ([]models.Song, error)

	// StreamSong returns a local file path for a song's audio, downloading
	// into the cache on first access.
	StreamSong(ctx context.Context, songID string) (string, error)
}

// Repositories bundles the per-kind stores the engine reconciles against.
type Repositories struct {
	Libraries *repositories.LibraryRepository
	Artists   *repositories.ArtistRepository
	Albums    *repositories.AlbumRepository
	Songs     *repositories.SongRepository
	Playlists *repositories.PlaylistRepository
}

// LibraryEngine implements SyncEngine over a protocol client, a credential
// store, the media cache, and the SQLite repositories.
type LibraryEngine struct {
	client *subsonic.Client
	creds  credentials.Store
	cache  *media.Cache
	repos  Repositories
	logger *log.Logger

	workers      int
	coverWorkers int
	limiter      *rate.Limiter
	locks        *lockTable
}

// NewLibraryEngine creates an engine. Worker counts and the request rate come
// from config; cover art workers are capped at 10 regardless.
func NewLibraryEngine(
	client *subsonic.Client,
	creds credentials.Store,
	cache *media.Cache,
	repos Repositories,
	cfg shared.SyncConfig,
	logger *log.Logger,
) *LibraryEngine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	coverWorkers := cfg.CoverArtWorkers
	if coverWorkers <= 0 || coverWorkers > 10 {
		coverWorkers = 10
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 10.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &LibraryEngine{
		client:       client,
		creds:        creds,
		cache:        cache,
		repos:        repos,
		logger:       logger,
		workers:      workers,
		coverWorkers: coverWorkers,
		limiter:      rate.NewLimiter(rate.Limit(rateLimit), 1),
		locks:        newLockTable(),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
