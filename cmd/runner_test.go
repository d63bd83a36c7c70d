package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/polyphonic/polyphonic/internal/shared"
)

func testConfig(t *testing.T) (*shared.Config, string) {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "polyphonic.db")
	config.Cache.DataDir = filepath.Join(dir, "data")
	config.Cache.AudioDir = filepath.Join(dir, "audio")
	config.Credentials.Path = filepath.Join(dir, "secrets.toml")

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		t.Fatalf("failed to encode config: %v", err)
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return config, path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config")
			}
			if runner.logger == nil {
				t.Error("expected default logger")
			}
			if runner.output != os.Stdout {
				t.Error("expected stdout output")
			}
		})
	})

	t.Run("register wires all commands", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := make(map[string]bool, len(commands))
		for _, command := range commands {
			names[command.Name] = true
		}
		for _, want := range []string{"setup", "library", "sync", "serve"} {
			if !names[want] {
				t.Errorf("command %q not registered", want)
			}
		}
	})
}

func TestLibraryCommands(t *testing.T) {
	pingOK := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/ping.view" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("p") != "" {
			t.Error("plaintext password leaked into the request")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"subsonic-response": {"status": "ok", "version": "1.16.1"}}`))
	}))
	defer pingOK.Close()

	config, configPath := testConfig(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Output: output})

	t.Run("setup migrates the database", func(t *testing.T) {
		err := appCommand(runner).Run(context.Background(), []string{
			"polyphonic", "setup", "--config", configPath,
		})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if _, err := os.Stat(config.Database.Path); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("add validates and registers", func(t *testing.T) {
		err := appCommand(runner).Run(context.Background(), []string{
			"polyphonic", "library", "add", "--config", configPath,
			"--name", "Home", "--host", pingOK.URL,
			"--username", "admin", "--password", "sesame",
		})
		if err != nil {
			t.Fatalf("library add failed: %v", err)
		}

		// The plaintext password must not reach the credential store either.
		secrets, err := os.ReadFile(config.Credentials.Path)
		if err != nil {
			t.Fatalf("credential store missing: %v", err)
		}
		if strings.Contains(string(secrets), "sesame") {
			t.Error("plaintext password persisted to the credential store")
		}
	})

	t.Run("list outputs the registered library", func(t *testing.T) {
		output.Reset()
		err := appCommand(runner).Run(context.Background(), []string{
			"polyphonic", "library", "list", "--config", configPath, "--json",
		})
		if err != nil {
			t.Fatalf("library list failed: %v", err)
		}

		var libraries []map[string]any
		if err := json.Unmarshal(output.Bytes(), &libraries); err != nil {
			t.Fatalf("list output is not JSON: %v", err)
		}
		if len(libraries) != 1 {
			t.Fatalf("expected 1 library, got %d", len(libraries))
		}
		if libraries[0]["Name"] != "Home" {
			t.Errorf("unexpected library name %v", libraries[0]["Name"])
		}
	})

	t.Run("add rejects bad credentials", func(t *testing.T) {
		pingFail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"subsonic-response": {"status": "failed", "error": {"code": 40, "message": "Wrong username or password"}}}`))
		}))
		defer pingFail.Close()

		err := appCommand(runner).Run(context.Background(), []string{
			"polyphonic", "library", "add", "--config", configPath,
			"--name", "Bad", "--host", pingFail.URL,
			"--username", "admin", "--password", "nope",
		})
		if err == nil || !strings.Contains(err.Error(), "credential validation failed") {
			t.Fatalf("expected credential validation failure, got %v", err)
		}
	})
}
