package repositories

import (
	"database/sql"

	"github.com/polyphonic/polyphonic/internal/models"
)

// PlaylistRepository reconciles playlist header rows. Membership is never
// persisted here; entries are fetched live per playlist id.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) upsert(tx *sql.Tx, libraryID string, playlists []models.Playlist) (int, error) {
	count := 0
	for _, playlist := range playlists {
		inserted, err := insertIgnore(tx, `
			INSERT OR IGNORE INTO playlists (id, library_id, name, owner, created, modified, song_count, duration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, playlist.ID, libraryID, playlist.Name, playlist.Owner, playlist.Created,
			playlist.Modified, playlist.SongCount, playlist.Duration)
		if err != nil {
			return count, err
		}
		if inserted {
			count++
		}
	}
	return count, nil
}

// Upsert inserts absent playlists without pruning.
func (r *PlaylistRepository) Upsert(libraryID string, playlists []models.Playlist) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, playlists)
		result.Inserted = n
		return err
	})
	return result, err
}

// Reconcile upserts then prunes rows absent from desiredIDs, as one unit.
func (r *PlaylistRepository) Reconcile(libraryID string, playlists []models.Playlist, desiredIDs []string) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, playlists)
		if err != nil {
			return err
		}
		result.Inserted = n

		pruned, err := prune(tx, "playlists", libraryID, desiredIDs)
		if err != nil {
			return err
		}
		result.Pruned = pruned
		return nil
	})
	return result, err
}

// ForLibrary lists a library's playlists ordered by name.
func (r *PlaylistRepository) ForLibrary(libraryID string) ([]models.Playlist, error) {
	rows, err := r.db.Query(`
		SELECT id, library_id, name, owner, created, modified, song_count, duration
		FROM playlists WHERE library_id = ? ORDER BY name COLLATE NOCASE ASC
	`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.LibraryID, &p.Name, &p.Owner, &p.Created, &p.Modified, &p.SongCount, &p.Duration); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}
