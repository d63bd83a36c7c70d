package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/polyphonic/polyphonic/internal/shared"
)

// ReconcileResult reports what one reconcile pass changed for a kind.
type ReconcileResult struct {
	Inserted int // rows newly inserted this pass
	Pruned   int // rows deleted because the remote no longer reports them
}

// prune deletes every row of table for libraryID whose id is not in
// desiredIDs. desiredIDs must be the complete set observed in the current
// pass; the orchestrator withholds pruning when it cannot guarantee that.
func prune(tx *sql.Tx, table, libraryID string, desiredIDs []string) (int, error) {
	var res sql.Result
	var err error

	if len(desiredIDs) == 0 {
		res, err = tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE library_id = ?", table), libraryID)
	} else {
		args := make([]any, 0, len(desiredIDs)+1)
		args = append(args, libraryID)
		for _, id := range desiredIDs {
			args = append(args, id)
		}
		query := fmt.Sprintf(
			"DELETE FROM %s WHERE library_id = ? AND id NOT IN (%s)",
			table, placeholders(len(desiredIDs)),
		)
		res, err = tx.Exec(query, args...)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: prune %s: %v", shared.ErrReconcile, table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: prune %s: %v", shared.ErrReconcile, table, err)
	}
	return int(n), nil
}

// placeholders returns n comma-separated ? markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// insertIgnore runs an INSERT OR IGNORE statement and reports whether a row
// was actually written.
func insertIgnore(tx *sql.Tx, query string, args ...any) (bool, error) {
	res, err := tx.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrReconcile, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrReconcile, err)
	}
	return n > 0, nil
}

// inTx runs fn inside one transaction; each entity kind's reconciliation is
// a unit.
func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReconcile, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReconcile, err)
	}
	return nil
}
