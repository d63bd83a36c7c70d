package formatter

import (
	"strings"
	"testing"

	"github.com/polyphonic/polyphonic/internal/models"
)

func TestConnectionString(t *testing.T) {
	lib := models.Library{
		ID:       "lib-1",
		Host:     "http://music.example.com",
		Port:     4533,
		Username: "alice",
		Salt:     "abc123",
	}

	t.Run("includes port when set", func(t *testing.T) {
		got := ConnectionString(lib, "tok", "ping")
		want := "http://music.example.com:4533/rest/ping.view?u=alice&t=tok&s=abc123&v=1.16.1&c=polyphonic&f=json"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("omits port when -1", func(t *testing.T) {
		lib := lib
		lib.Port = -1
		got := ConnectionString(lib, "tok", "getArtists")
		if strings.Contains(got, ":4533") {
			t.Errorf("port should be omitted, got %q", got)
		}
		if !strings.HasPrefix(got, "http://music.example.com/rest/getArtists.view?") {
			t.Errorf("unexpected prefix: %q", got)
		}
	})
}

func TestToken(t *testing.T) {
	// md5("sesame" + "c19b2d") per the Subsonic auth docs example shape
	got := Token("sesame", "c19b2d")
	if len(got) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(got))
	}
	if got != "26719a1196d2a940705a59634eb18eab" {
		t.Errorf("unexpected token: %s", got)
	}

	if Token("sesame", "other") == got {
		t.Error("different salts must yield different tokens")
	}
}

func TestSalt(t *testing.T) {
	a, err := Salt()
	if err != nil {
		t.Fatalf("salt generation failed: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}

	b, _ := Salt()
	if a == b {
		t.Error("salts should not repeat")
	}
}
