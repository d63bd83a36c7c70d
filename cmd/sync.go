package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/polyphonic/polyphonic/internal/tasks"
)

// Sync mirrors one or all registered libraries.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	d, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	defer d.Close()

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	var results []tasks.SyncResult
	var runErr error
	if libraryID := cmd.String("library"); libraryID != "" {
		result, err := d.engine.Run(ctx, progress, libraryID)
		if result != nil {
			results = append(results, *result)
		}
		runErr = err
	} else {
		results, runErr = d.engine.RunAll(ctx, progress)
	}
	close(progress)
	<-done

	for _, result := range results {
		r.logger.Info("library synced",
			"library", result.LibraryID,
			"artists", result.Artists.Fetched,
			"albums", result.Albums.Fetched,
			"songs", result.Songs.Fetched,
			"playlists", result.Playlists.Fetched,
			"inserted", result.Inserted,
			"pruned", result.Pruned)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(results); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("sync finished with errors: %w", runErr)
	}
	return nil
}
