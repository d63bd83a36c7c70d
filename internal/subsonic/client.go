package subsonic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/polyphonic/polyphonic/internal/formatter"
	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/shared"
)

// Client issues typed requests against a remote library. It holds no state
// beyond the HTTP client; library identity and credentials arrive per call.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a protocol client. A nil client defaults to
// [http.DefaultClient].
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{httpClient: client}
}

// get performs one GET, unwraps the subsonic-response envelope, surfaces
// embedded error payloads, and decodes the payload into out when non-nil.
func (c *Client) get(ctx context.Context, url string, out any) error {
	body, err := c.raw(ctx, url)
	if err != nil {
		return err
	}

	var env struct {
		Response json.RawMessage `json:"subsonic-response"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	if env.Response == nil {
		return fmt.Errorf("%w: missing subsonic-response envelope", shared.ErrDecode)
	}

	var base BaseResponse
	if err := json.Unmarshal(env.Response, &base); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	if base.Status != "ok" {
		if base.Error != nil {
			return fmt.Errorf("%w: code %d: %s", shared.ErrProtocol, base.Error.Code, base.Error.Message)
		}
		return fmt.Errorf("%w: status %q", shared.ErrProtocol, base.Status)
	}

	if out != nil {
		if err := json.Unmarshal(env.Response, out); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
	}
	return nil
}

// raw performs one GET and returns the response body bytes.
func (c *Client) raw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", shared.ErrTransport, resp.StatusCode)
	}
	return body, nil
}

// binary fetches raw media bytes. Binary endpoints report application
// errors by switching the response to a JSON envelope, so a JSON content
// type is unwrapped as an error rather than returned as media.
func (c *Client) binary(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", shared.ErrTransport, resp.StatusCode)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var env struct {
			Response BaseResponse `json:"subsonic-response"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
		if env.Response.Error != nil {
			return nil, fmt.Errorf("%w: code %d: %s", shared.ErrProtocol, env.Response.Error.Code, env.Response.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %q", shared.ErrProtocol, env.Response.Status)
	}
	return body, nil
}

// Ping verifies connectivity and credentials against a library.
func (c *Client) Ping(ctx context.Context, library models.Library, token string) error {
	return c.get(ctx, formatter.ConnectionString(library, token, "ping"), nil)
}

// GetArtists retrieves the full artist index for a library.
func (c *Client) GetArtists(ctx context.Context, library models.Library, token string) (*ArtistsID3, error) {
	var resp getArtistsResponse
	if err := c.get(ctx, formatter.ConnectionString(library, token, "getArtists"), &resp); err != nil {
		return nil, err
	}
	return &resp.Artists, nil
}

// GetArtist retrieves one artist with their albums. The URL is a getArtist
// connection string with &id= appended; fan-out stages build these in bulk.
func (c *Client) GetArtist(ctx context.Context, url string) (*ArtistWithAlbumsID3, error) {
	var resp getArtistResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp.Artist, nil
}

// GetAlbum retrieves one album with its songs from a prebuilt URL.
func (c *Client) GetAlbum(ctx context.Context, url string) (*AlbumID3WithSongs, error) {
	var resp getAlbumResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp.Album, nil
}

// GetAlbumList2 retrieves one page of the album list of the given type
// (newest, recent, frequent, alphabeticalByName, ...).
func (c *Client) GetAlbumList2(ctx context.Context, library models.Library, token, listType string, size int) ([]AlbumID3, error) {
	url := fmt.Sprintf("%s&type=%s&size=%d",
		formatter.ConnectionString(library, token, "getAlbumList2"), listType, size)
	var resp getAlbumList2Response
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.AlbumList2.Album, nil
}

// GetCoverArt fetches cover art bytes from a prebuilt URL.
func (c *Client) GetCoverArt(ctx context.Context, url string) ([]byte, error) {
	return c.binary(ctx, url)
}

// GetPlaylists retrieves all playlist headers for a library.
func (c *Client) GetPlaylists(ctx context.Context, library models.Library, token string) ([]Playlist, error) {
	var resp getPlaylistsResponse
	if err := c.get(ctx, formatter.ConnectionString(library, token, "getPlaylists"), &resp); err != nil {
		return nil, err
	}
	return resp.Playlists.Playlist, nil
}

// GetPlaylist retrieves one playlist's entries.
func (c *Client) GetPlaylist(ctx context.Context, library models.Library, token, id string) (*PlaylistWithEntries, error) {
	url := formatter.ConnectionString(library, token, "getPlaylist") + "&id=" + id
	var resp getPlaylistResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp.Playlist, nil
}

// Stream fetches the raw audio bytes for a song.
func (c *Client) Stream(ctx context.Context, library models.Library, token, songID string) ([]byte, error) {
	url := formatter.ConnectionString(library, token, "stream") + "&id=" + songID
	return c.binary(ctx, url)
}

// Scrobble submits a played notification for a song. Best effort; callers
// typically log and carry on when it fails.
func (c *Client) Scrobble(ctx context.Context, library models.Library, token, songID string) error {
	url := formatter.ConnectionString(library, token, "scrobble") + "&id=" + songID
	return c.get(ctx, url, nil)
}
