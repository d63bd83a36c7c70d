package subsonic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/shared"
	tu "github.com/polyphonic/polyphonic/internal/testing"
)

func testLibrary(host string) models.Library {
	return models.Library{
		ID:       "lib-1",
		Name:     "Test",
		Host:     host,
		Port:     -1,
		Username: "alice",
		Salt:     "abc123",
	}
}

func envelope(payload string) string {
	return fmt.Sprintf(`{"subsonic-response": {"status": "ok", "version": "1.16.1", "serverVersion": "test", %s}}`, payload)
}

func TestClientGetArtists(t *testing.T) {
	t.Run("decodes artist index", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rest/getArtists.view" {
				t.Errorf("expected path /rest/getArtists.view, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("u"); got != "alice" {
				t.Errorf("expected u=alice, got %s", got)
			}
			fmt.Fprint(w, envelope(`"artists": {"ignoredArticles": "The El", "index": [
				{"name": "A", "artist": [{"id": "ar-1", "name": "Autolux"}]},
				{"name": "B", "artist": [{"id": "ar-2", "name": "Beach House"}, {"id": "ar-3", "name": "Broadcast"}]}
			]}`))
		}))
		defer srv.Close()

		client := NewClient(srv.Client())
		artists, err := client.GetArtists(context.Background(), testLibrary(srv.URL), "tok")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists.Index) != 2 {
			t.Fatalf("expected 2 index buckets, got %d", len(artists.Index))
		}
		if artists.Index[1].Artist[0].Name != "Beach House" {
			t.Errorf("unexpected artist: %+v", artists.Index[1].Artist[0])
		}
	})

	t.Run("surfaces protocol errors distinctly", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"subsonic-response": {"status": "failed", "version": "1.16.1",
				"error": {"code": 40, "message": "Wrong username or password"}}}`)
		}))
		defer srv.Close()

		client := NewClient(srv.Client())
		_, err := client.GetArtists(context.Background(), testLibrary(srv.URL), "tok")
		if !errors.Is(err, shared.ErrProtocol) {
			t.Fatalf("expected ErrProtocol, got %v", err)
		}
		if errors.Is(err, shared.ErrTransport) {
			t.Error("protocol error should not match ErrTransport")
		}
	})

	t.Run("surfaces malformed JSON as decode error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"not-an-envelope": true}`)
		}))
		defer srv.Close()

		client := NewClient(srv.Client())
		_, err := client.GetArtists(context.Background(), testLibrary(srv.URL), "tok")
		if !errors.Is(err, shared.ErrDecode) {
			t.Fatalf("expected ErrDecode, got %v", err)
		}
	})

	t.Run("surfaces connection failure as transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := NewClient(nil)
		_, err := client.GetArtists(context.Background(), testLibrary(url), "tok")
		if !errors.Is(err, shared.ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
	})
}

func TestClientGetAlbum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "al-1" {
			t.Errorf("expected id=al-1, got %s", got)
		}
		fmt.Fprint(w, envelope(`"album": {"id": "al-1", "name": "Teen Dream", "coverArt": "cov-1",
			"duration": 2935, "year": 2010, "song": [
				{"id": "s-1", "title": "Zebra", "albumId": "al-1", "album": "Teen Dream",
				 "artistId": "ar-2", "artist": "Beach House", "track": 1, "duration": 291,
				 "contentType": "audio/flac", "coverArt": "cov-1"},
				{"id": "s-2", "title": "Silver Soul", "albumId": "al-1", "album": "Teen Dream",
				 "artist": "Beach House", "contentType": "audio/flac"}
			]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client())
	url := fmt.Sprintf("%s/rest/getAlbum.view?u=alice&t=tok&s=abc123&v=1.16.1&c=polyphonic&f=json&id=al-1", srv.URL)

	album, err := client.GetAlbum(context.Background(), url)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if album.Year != 2010 || len(album.Song) != 2 {
		t.Fatalf("unexpected album: %+v", album)
	}
	if album.Song[1].DiscNumber != 0 || album.Song[1].Track != 0 {
		t.Errorf("omitted numeric fields should decode to zero: %+v", album.Song[1])
	}
}

func TestClientBinary(t *testing.T) {
	t.Run("returns raw bytes", func(t *testing.T) {
		payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(payload)
		}))
		defer srv.Close()

		client := NewClient(srv.Client())
		got, err := client.GetCoverArt(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != len(payload) {
			t.Errorf("expected %d bytes, got %d", len(payload), len(got))
		}
	})

	t.Run("unwraps JSON error envelope on binary endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"subsonic-response": {"status": "failed", "version": "1.16.1",
				"error": {"code": 70, "message": "Cover art not found"}}}`)
		}))
		defer srv.Close()

		client := NewClient(srv.Client())
		_, err := client.GetCoverArt(context.Background(), srv.URL)
		if !errors.Is(err, shared.ErrProtocol) {
			t.Fatalf("expected ErrProtocol, got %v", err)
		}
	})
}

func TestClientPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/ping.view" {
			t.Errorf("expected ping path, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"subsonic-response": {"status": "ok", "version": "1.16.1"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.Client())
	if err := client.Ping(context.Background(), testLibrary(srv.URL), "tok"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestClientScrobble(t *testing.T) {
	transport := tu.NewMockRoundTripper(tu.SubsonicOK(t, "", nil), nil)
	client := NewClient(&http.Client{Transport: transport})

	if err := client.Scrobble(context.Background(), testLibrary("http://example.test"), "tok", "s-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestClientGetAlbumList2(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "newest" {
			t.Errorf("expected type=newest, got %s", got)
		}
		if got := r.URL.Query().Get("size"); got != "20" {
			t.Errorf("expected size=20, got %s", got)
		}
		fmt.Fprint(w, envelope(`"albumList2": {"album": [
			{"id": "al-1", "name": "Bloom", "artist": "Beach House", "artistId": "ar-2", "coverArt": "cov-2", "year": 2012},
			{"id": "al-2", "name": "Depression Cherry", "artist": "Beach House", "artistId": "ar-2"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client())
	albums, err := client.GetAlbumList2(context.Background(), testLibrary(srv.URL), "tok", "newest", 20)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}
	if albums[1].Year != 0 {
		t.Errorf("omitted year should decode to zero, got %d", albums[1].Year)
	}
}
