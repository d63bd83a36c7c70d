package repositories

import (
	"database/sql"
	"fmt"

	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/shared"
)

// SongRepository reconciles song rows against remote state.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) upsert(tx *sql.Tx, libraryID string, songs []models.Song) (int, error) {
	count := 0
	for _, song := range songs {
		inserted, err := insertIgnore(tx, `
			INSERT OR IGNORE INTO songs
				(id, library_id, title, artist_id, artist_name, album_id, album_name,
				 track, disc_number, duration, content_type, cover_art)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, song.ID, libraryID, song.Title, song.ArtistID, song.ArtistName, song.AlbumID,
			song.AlbumName, song.Track, song.DiscNumber, song.Duration, song.ContentType, song.CoverArt)
		if err != nil {
			return count, err
		}
		if inserted {
			count++
		}
	}
	return count, nil
}

// Upsert inserts absent songs without pruning.
func (r *SongRepository) Upsert(libraryID string, songs []models.Song) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, songs)
		result.Inserted = n
		return err
	})
	return result, err
}

// Reconcile upserts then prunes rows absent from desiredIDs, as one unit.
func (r *SongRepository) Reconcile(libraryID string, songs []models.Song, desiredIDs []string) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, songs)
		if err != nil {
			return err
		}
		result.Inserted = n

		pruned, err := prune(tx, "songs", libraryID, desiredIDs)
		if err != nil {
			return err
		}
		result.Pruned = pruned
		return nil
	})
	return result, err
}

// Get retrieves one song; the serving endpoint uses it to resolve content
// type and cache extension.
func (r *SongRepository) Get(id string) (models.Song, error) {
	var s models.Song
	err := r.db.QueryRow(`
		SELECT id, library_id, title, artist_id, artist_name, album_id, album_name,
		       track, disc_number, duration, content_type, cover_art
		FROM songs WHERE id = ?
	`, id).Scan(&s.ID, &s.LibraryID, &s.Title, &s.ArtistID, &s.ArtistName, &s.AlbumID,
		&s.AlbumName, &s.Track, &s.DiscNumber, &s.Duration, &s.ContentType, &s.CoverArt)
	if err == sql.ErrNoRows {
		return s, fmt.Errorf("%w: song %s", shared.ErrNotCached, id)
	}
	if err != nil {
		return s, fmt.Errorf("failed to get song: %w", err)
	}
	return s, nil
}

// ForAlbum lists an album's songs in track order.
func (r *SongRepository) ForAlbum(albumID string) ([]models.Song, error) {
	rows, err := r.db.Query(`
		SELECT id, library_id, title, artist_id, artist_name, album_id, album_name,
		       track, disc_number, duration, content_type, cover_art
		FROM songs WHERE album_id = ? ORDER BY disc_number ASC, track ASC
	`, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var s models.Song
		if err := rows.Scan(&s.ID, &s.LibraryID, &s.Title, &s.ArtistID, &s.ArtistName, &s.AlbumID,
			&s.AlbumName, &s.Track, &s.DiscNumber, &s.Duration, &s.ContentType, &s.CoverArt); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}
