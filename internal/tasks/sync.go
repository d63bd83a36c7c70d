package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/polyphonic/polyphonic/internal/formatter"
	"github.com/polyphonic/polyphonic/internal/media"
	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/repositories"
	"github.com/polyphonic/polyphonic/internal/shared"
	"github.com/polyphonic/polyphonic/internal/subsonic"
)

// Run performs one library's sync pass.
//
// GetArtists and GetPlaylists failures abort the pass; per-item fan-out
// failures are recorded and only disable the prune half of the affected
// kinds. The last_scanned stamp is written whenever the pass reaches the
// reconcile stage, regardless of how reconciliation went.
func (e *LibraryEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, libraryID string) (*SyncResult, error) {
	library, err := e.repos.Libraries.Get(libraryID)
	if err != nil {
		return nil, err
	}

	token, err := e.creds.Secret(libraryID)
	if err != nil {
		return nil, err
	}

	if !e.locks.TryAcquire(libraryID) {
		return nil, fmt.Errorf("%w: library %s", shared.ErrSyncInProgress, libraryID)
	}
	defer e.locks.Release(libraryID)

	logger := shared.WithLogger(e.logger, "library", libraryID)
	result := &SyncResult{LibraryID: libraryID}

	e.sendProgress(progress, phaseUpdate(FetchingArtists, 0, 0, "fetching artist index"))
	index, err := e.client.GetArtists(ctx, library, token)
	if err != nil {
		e.sendProgress(progress, phaseUpdate(Failed, 0, 0, "artist index fetch failed"))
		return nil, err
	}
	indexed := flattenIndex(*index)
	logger.Info("fetched artist index", "artists", len(indexed))

	artistIDs := make([]string, len(indexed))
	for i, artist := range indexed {
		artistIDs[i] = artist.ID
	}

	e.sendProgress(progress, phaseUpdate(FetchingAlbums, 0, len(artistIDs), "fetching albums for %d artists", len(artistIDs)))
	artistBatch := fanOut(ctx, artistIDs, e.workers, e.limiter,
		func(ctx context.Context, id string) (*subsonic.ArtistWithAlbumsID3, error) {
			url := formatter.ConnectionString(library, token, "getArtist") + "&id=" + id
			return e.client.GetArtist(ctx, url)
		})
	result.Artists = StageCount{Fetched: len(artistBatch.Successes), Failed: len(artistBatch.Failures)}
	for _, failure := range artistBatch.Failures {
		logger.Warn("artist fetch failed", "artist", failure.Key, "err", failure.Err)
	}

	var albums []subsonic.AlbumID3
	for _, artist := range artistBatch.Successes {
		albums = append(albums, artist.Album...)
	}
	albumIDs := make([]string, len(albums))
	for i, album := range albums {
		albumIDs[i] = album.ID
	}

	// Cover art only needs the album list, so it runs alongside the song
	// fetch on its own capped worker pool.
	var coverBatch *Batch[string]
	var coverWait sync.WaitGroup
	covers := coverIDs(albums)
	coverWait.Add(1)
	go func() {
		defer coverWait.Done()
		e.sendProgress(progress, phaseUpdate(FetchingCoverArt, 0, len(covers), "fetching %d covers", len(covers)))
		coverBatch = fanOut(ctx, covers, e.coverWorkers, e.limiter,
			func(ctx context.Context, id string) (string, error) {
				url := formatter.ConnectionString(library, token, "getCoverArt") + "&id=" + id
				return e.cache.FetchCoverArt(ctx, id, func(ctx context.Context) ([]byte, error) {
					return e.client.GetCoverArt(ctx, url)
				})
			})
	}()

	e.sendProgress(progress, phaseUpdate(FetchingSongs, 0, len(albumIDs), "fetching songs for %d albums", len(albumIDs)))
	albumBatch := fanOut(ctx, albumIDs, e.workers, e.limiter,
		func(ctx context.Context, id string) (*subsonic.AlbumID3WithSongs, error) {
			url := formatter.ConnectionString(library, token, "getAlbum") + "&id=" + id
			return e.client.GetAlbum(ctx, url)
		})
	result.Albums = StageCount{Fetched: len(albumBatch.Successes), Failed: len(albumBatch.Failures)}
	for _, failure := range albumBatch.Failures {
		logger.Warn("album fetch failed", "album", failure.Key, "err", failure.Err)
	}

	var songs []subsonic.Child
	for _, album := range albumBatch.Successes {
		songs = append(songs, album.Song...)
	}
	result.Songs = StageCount{Fetched: len(songs)}

	coverWait.Wait()
	result.CoverArt = StageCount{Fetched: len(coverBatch.Successes), Failed: len(coverBatch.Failures)}
	for _, failure := range coverBatch.Failures {
		logger.Warn("cover art fetch failed", "cover", failure.Key, "err", failure.Err)
	}

	e.sendProgress(progress, phaseUpdate(FetchingPlaylists, 0, 0, "fetching playlists"))
	playlists, err := e.client.GetPlaylists(ctx, library, token)
	if err != nil {
		e.sendProgress(progress, phaseUpdate(Failed, 0, 0, "playlist fetch failed"))
		return nil, err
	}
	result.Playlists = StageCount{Fetched: len(playlists)}

	e.sendProgress(progress, phaseUpdate(Transforming, 0, 0, "deriving rows"))
	rows := transform(libraryID, snapshot{
		artists:   indexed,
		albums:    albums,
		songs:     songs,
		playlists: playlists,
	})

	e.sendProgress(progress, phaseUpdate(Reconciling, 0, 0, "reconciling local mirror"))

	// A fan-out failure leaves the desired set for downstream kinds
	// incomplete, so their prune half is skipped to avoid deleting rows
	// that still exist remotely. Artist and album desired sets both derive
	// from the per-artist fetch; songs additionally need every album fetch.
	albumsComplete := artistBatch.Complete()
	songsComplete := albumsComplete && albumBatch.Complete()

	var reconcileErr error
	apply := func(kind string, full bool, reconcile, upsert func() (repositories.ReconcileResult, error)) {
		op := reconcile
		if !full {
			op = upsert
			result.PruneSkipped = append(result.PruneSkipped, kind)
			logger.Warn("prune skipped, desired set incomplete", "kind", kind)
		}
		res, err := op()
		if err != nil {
			logger.Error("reconcile failed", "kind", kind, "err", err)
			if reconcileErr == nil {
				reconcileErr = err
			}
			return
		}
		result.Inserted += res.Inserted
		result.Pruned += res.Pruned
	}

	apply("artists", albumsComplete,
		func() (repositories.ReconcileResult, error) {
			return e.repos.Artists.Reconcile(libraryID, rows.artists, rows.artistIDs)
		},
		func() (repositories.ReconcileResult, error) {
			return e.repos.Artists.Upsert(libraryID, rows.artists)
		})
	apply("albums", albumsComplete,
		func() (repositories.ReconcileResult, error) {
			return e.repos.Albums.Reconcile(libraryID, rows.albums, rows.albumIDs)
		},
		func() (repositories.ReconcileResult, error) {
			return e.repos.Albums.Upsert(libraryID, rows.albums)
		})
	apply("songs", songsComplete,
		func() (repositories.ReconcileResult, error) {
			return e.repos.Songs.Reconcile(libraryID, rows.songs, rows.songIDs)
		},
		func() (repositories.ReconcileResult, error) {
			return e.repos.Songs.Upsert(libraryID, rows.songs)
		})
	apply("playlists", true,
		func() (repositories.ReconcileResult, error) {
			return e.repos.Playlists.Reconcile(libraryID, rows.playlists, rows.playlistIDs)
		},
		func() (repositories.ReconcileResult, error) {
			return e.repos.Playlists.Upsert(libraryID, rows.playlists)
		})

	if err := e.repos.Libraries.TouchLastScanned(libraryID, shared.NowMillis()); err != nil {
		logger.Error("failed to stamp last_scanned", "err", err)
		if reconcileErr == nil {
			reconcileErr = err
		}
	}

	if reconcileErr != nil {
		e.sendProgress(progress, phaseUpdate(Failed, 0, 0, "reconcile failed"))
		return result, fmt.Errorf("%w: %v", shared.ErrReconcile, reconcileErr)
	}

	e.sendProgress(progress, phaseUpdate(Done, 0, 0, "sync complete"))
	logger.Info("sync complete",
		"artists", result.Artists.Fetched,
		"albums", result.Albums.Fetched,
		"songs", result.Songs.Fetched,
		"playlists", result.Playlists.Fetched,
		"inserted", result.Inserted,
		"pruned", result.Pruned,
		"prune_skipped", result.PruneSkipped)
	return result, nil
}

// RunAll syncs every configured library in sequence.
func (e *LibraryEngine) RunAll(ctx context.Context, progress chan<- ProgressUpdate) ([]SyncResult, error) {
	libraries, err := e.repos.Libraries.List()
	if err != nil {
		return nil, err
	}

	var results []SyncResult
	var firstErr error
	for _, library := range libraries {
		result, err := e.Run(ctx, progress, library.ID)
		if err != nil {
			e.logger.Error("library sync failed", "library", library.ID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			if result == nil {
				continue
			}
		}
		results = append(results, *result)
	}
	return results, firstErr
}

// PlaylistSongs resolves a playlist's entries live from the remote.
func (e *LibraryEngine) PlaylistSongs(ctx context.Context, libraryID, playlistID string) ([]models.Song, error) {
	library, err := e.repos.Libraries.Get(libraryID)
	if err != nil {
		return nil, err
	}
	token, err := e.creds.Secret(libraryID)
	if err != nil {
		return nil, err
	}

	playlist, err := e.client.GetPlaylist(ctx, library, token, playlistID)
	if err != nil {
		return nil, err
	}

	songs := make([]models.Song, 0, len(playlist.Entry))
	for _, entry := range playlist.Entry {
		disc := entry.DiscNumber
		if disc == 0 {
			disc = 1
		}
		songs = append(songs, models.Song{
			ID:          entry.ID,
			LibraryID:   libraryID,
			Title:       entry.Title,
			ArtistID:    entry.ArtistID,
			ArtistName:  entry.Artist,
			AlbumID:     entry.AlbumID,
			AlbumName:   entry.Album,
			Track:       entry.Track,
			DiscNumber:  disc,
			Duration:    entry.Duration,
			ContentType: entry.ContentType,
			CoverArt:    entry.CoverArt,
		})
	}
	return songs, nil
}

// StreamSong returns a local audio file path for a mirrored song, pulling
// the bytes from the remote on the first access.
func (e *LibraryEngine) StreamSong(ctx context.Context, songID string) (string, error) {
	song, err := e.repos.Songs.Get(songID)
	if err != nil {
		return "", err
	}
	library, err := e.repos.Libraries.Get(song.LibraryID)
	if err != nil {
		return "", err
	}
	token, err := e.creds.Secret(song.LibraryID)
	if err != nil {
		return "", err
	}

	ext := media.ExtensionForContentType(song.ContentType)
	return e.cache.StreamSongToFile(ctx, songID, ext, func(ctx context.Context) ([]byte, error) {
		return e.client.Stream(ctx, library, token, songID)
	})
}
