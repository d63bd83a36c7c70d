package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/polyphonic/polyphonic/internal/formatter"
	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/shared"
)

// LibraryAdd registers a remote library: it salts and hashes the password,
// validates the credentials with a ping, stores the hash in the credential
// store, and persists the connection row. The plaintext password is never
// written anywhere.
func (r *Runner) LibraryAdd(ctx context.Context, cmd *cli.Command) error {
	d, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	defer d.Close()

	salt, err := formatter.Salt()
	if err != nil {
		return err
	}
	token := formatter.Token(cmd.String("password"), salt)

	library := models.Library{
		ID:       shared.GenerateID(),
		Name:     cmd.String("name"),
		Host:     cmd.String("host"),
		Port:     cmd.Int("port"),
		Username: cmd.String("username"),
		Salt:     salt,
	}
	if err := library.Validate(); err != nil {
		return err
	}

	r.logger.Info("validating credentials", "host", library.Host, "username", library.Username)
	if err := d.client.Ping(ctx, library, token); err != nil {
		return fmt.Errorf("credential validation failed: %w", err)
	}

	if err := d.creds.SetSecret(library.ID, token); err != nil {
		return err
	}
	if err := d.repos.Libraries.Create(library); err != nil {
		return err
	}

	r.logger.Info("library registered", "id", library.ID, "name", library.Name)
	return nil
}

// LibraryList prints the registered libraries.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	d, err := r.open(cmd.String("config"))
	if err != nil {
		return err
	}
	defer d.Close()

	libraries, err := d.repos.Libraries.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(libraries)
	}

	if len(libraries) == 0 {
		fmt.Fprintln(r.output, "No libraries registered. Run 'library add' first.")
		return nil
	}

	for _, library := range libraries {
		scanned := "never"
		if library.LastScanned > 0 {
			scanned = time.UnixMilli(library.LastScanned).Format(time.RFC3339)
		}
		fmt.Fprintf(r.output, "%s  %s  %s (user %s, last scanned %s)\n",
			library.ID, library.Name, library.Host, library.Username, scanned)
	}
	return nil
}
