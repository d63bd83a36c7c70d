package repositories

import (
	"database/sql"

	"github.com/polyphonic/polyphonic/internal/models"
)

// AlbumRepository reconciles album rows against remote state.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

func (r *AlbumRepository) upsert(tx *sql.Tx, libraryID string, albums []models.Album) (int, error) {
	count := 0
	for _, album := range albums {
		inserted, err := insertIgnore(tx, `
			INSERT OR IGNORE INTO albums (id, library_id, name, artist_id, artist_name, cover_art, year, duration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, album.ID, libraryID, album.Name, album.ArtistID, album.ArtistName, album.CoverArt, album.Year, album.Duration)
		if err != nil {
			return count, err
		}
		if inserted {
			count++
		}
	}
	return count, nil
}

// Upsert inserts absent albums without pruning.
func (r *AlbumRepository) Upsert(libraryID string, albums []models.Album) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, albums)
		result.Inserted = n
		return err
	})
	return result, err
}

// Reconcile upserts then prunes rows absent from desiredIDs, as one unit.
func (r *AlbumRepository) Reconcile(libraryID string, albums []models.Album, desiredIDs []string) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, albums)
		if err != nil {
			return err
		}
		result.Inserted = n

		pruned, err := prune(tx, "albums", libraryID, desiredIDs)
		if err != nil {
			return err
		}
		result.Pruned = pruned
		return nil
	})
	return result, err
}

// ForArtist lists an artist's albums, newest release first.
func (r *AlbumRepository) ForArtist(artistID string) ([]models.Album, error) {
	rows, err := r.db.Query(`
		SELECT id, library_id, name, artist_id, artist_name, cover_art, year, duration
		FROM albums WHERE artist_id = ? ORDER BY year DESC
	`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlbums(rows)
}

// ForLibrary lists all of a library's albums.
func (r *AlbumRepository) ForLibrary(libraryID string) ([]models.Album, error) {
	rows, err := r.db.Query(`
		SELECT id, library_id, name, artist_id, artist_name, cover_art, year, duration
		FROM albums WHERE library_id = ? ORDER BY name COLLATE NOCASE ASC
	`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlbums(rows)
}

func scanAlbums(rows *sql.Rows) ([]models.Album, error) {
	var albums []models.Album
	for rows.Next() {
		var a models.Album
		if err := rows.Scan(&a.ID, &a.LibraryID, &a.Name, &a.ArtistID, &a.ArtistName, &a.CoverArt, &a.Year, &a.Duration); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}
