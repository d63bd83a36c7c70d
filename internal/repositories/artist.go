package repositories

import (
	"database/sql"

	"github.com/polyphonic/polyphonic/internal/models"
)

// ArtistRepository reconciles artist rows against remote state.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

func (r *ArtistRepository) upsert(tx *sql.Tx, libraryID string, artists []models.Artist) (int, error) {
	count := 0
	for _, artist := range artists {
		inserted, err := insertIgnore(tx, `
			INSERT OR IGNORE INTO artists (id, library_id, name) VALUES (?, ?, ?)
		`, artist.ID, libraryID, artist.Name)
		if err != nil {
			return count, err
		}
		if inserted {
			count++
		}
	}
	return count, nil
}

// Upsert inserts every artist that is absent, leaving existing rows
// untouched. Used instead of Reconcile when the pass could not compute a
// complete desired set.
func (r *ArtistRepository) Upsert(libraryID string, artists []models.Artist) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, artists)
		result.Inserted = n
		return err
	})
	return result, err
}

// Reconcile upserts then prunes rows absent from desiredIDs, as one unit.
func (r *ArtistRepository) Reconcile(libraryID string, artists []models.Artist, desiredIDs []string) (ReconcileResult, error) {
	var result ReconcileResult
	err := inTx(r.db, func(tx *sql.Tx) error {
		n, err := r.upsert(tx, libraryID, artists)
		if err != nil {
			return err
		}
		result.Inserted = n

		pruned, err := prune(tx, "artists", libraryID, desiredIDs)
		if err != nil {
			return err
		}
		result.Pruned = pruned
		return nil
	})
	return result, err
}

// ForLibrary lists a library's artists ordered by name.
func (r *ArtistRepository) ForLibrary(libraryID string) ([]models.Artist, error) {
	rows, err := r.db.Query(`
		SELECT id, library_id, name FROM artists
		WHERE library_id = ? ORDER BY name COLLATE NOCASE ASC
	`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.LibraryID, &a.Name); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}
