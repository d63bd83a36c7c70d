package repositories

import (
	"database/sql"
	"fmt"

	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/shared"
)

// LibraryRepository persists library rows. Library registration is
// insert-or-ignore keyed by id and never deletes other libraries' rows; the
// only in-place update is the last_scanned stamp.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new LibraryRepository with the given database connection
func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// Create inserts a library row, ignoring the write when the id already
// exists. The secret hash is deliberately not part of the row.
func (r *LibraryRepository) Create(library models.Library) error {
	if err := library.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return inTx(r.db, func(tx *sql.Tx) error {
		_, err := insertIgnore(tx, `
			INSERT OR IGNORE INTO libraries (id, name, host, port, username, salt, last_scanned)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, library.ID, library.Name, library.Host, library.Port, library.Username, library.Salt, library.LastScanned)
		return err
	})
}

// Get retrieves a library by id.
func (r *LibraryRepository) Get(id string) (models.Library, error) {
	var lib models.Library
	err := r.db.QueryRow(`
		SELECT id, name, host, port, username, salt, last_scanned
		FROM libraries WHERE id = ?
	`, id).Scan(&lib.ID, &lib.Name, &lib.Host, &lib.Port, &lib.Username, &lib.Salt, &lib.LastScanned)
	if err == sql.ErrNoRows {
		return lib, fmt.Errorf("%w: %s", shared.ErrLibraryUnknown, id)
	}
	if err != nil {
		return lib, fmt.Errorf("failed to get library: %w", err)
	}
	return lib, nil
}

// List retrieves all registered libraries ordered by name.
func (r *LibraryRepository) List() ([]models.Library, error) {
	rows, err := r.db.Query(`
		SELECT id, name, host, port, username, salt, last_scanned
		FROM libraries ORDER BY name COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}
	defer rows.Close()

	var libraries []models.Library
	for rows.Next() {
		var lib models.Library
		if err := rows.Scan(&lib.ID, &lib.Name, &lib.Host, &lib.Port, &lib.Username, &lib.Salt, &lib.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan library: %w", err)
		}
		libraries = append(libraries, lib)
	}
	return libraries, rows.Err()
}

// TouchLastScanned stamps the library's last sync time in epoch
// milliseconds. Runs unconditionally at the end of a pass, independent of
// entity reconciliation outcomes.
func (r *LibraryRepository) TouchLastScanned(id string, millis int64) error {
	_, err := r.db.Exec("UPDATE libraries SET last_scanned = ? WHERE id = ?", millis, id)
	if err != nil {
		return fmt.Errorf("%w: stamp last_scanned: %v", shared.ErrReconcile, err)
	}
	return nil
}
