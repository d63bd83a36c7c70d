package models

import "fmt"

// Model defines the base interface for all persistent models in the mirror.
// Keys are the remote server's opaque identifiers, not locally generated.
type Model interface {
	Key() string     // Key returns the primary key for this row
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Library is one configured remote server connection plus its locally cached
// mirror. The hashed password is never stored here; it lives in the
// credential store and is resolved fresh before any remote call.
type Library struct {
	ID          string
	Name        string
	Host        string
	Port        int // -1 when the library has no explicit port
	Username    string
	Salt        string
	LastScanned int64 // milliseconds since epoch, 0 before the first sync
}

func (l Library) Key() string { return l.ID }

func (l Library) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("library id is required")
	}
	if l.Host == "" {
		return fmt.Errorf("library host is required")
	}
	if l.Username == "" {
		return fmt.Errorf("library username is required")
	}
	return nil
}

// Artist is an album artist. Artists with no album credited to them are
// pruned during transform and never reach storage.
type Artist struct {
	ID        string
	LibraryID string
	Name      string
}

func (a Artist) Key() string { return a.ID }

func (a Artist) Validate() error {
	if a.ID == "" || a.LibraryID == "" {
		return fmt.Errorf("artist id and library id are required")
	}
	return nil
}

// Album keeps the artist display name denormalized so it renders even when
// the remote omits the artist id.
type Album struct {
	ID         string
	LibraryID  string
	Name       string
	ArtistID   string
	ArtistName string
	CoverArt   string
	Year       int // 0 when the remote reports no release year
	Duration   int // seconds
}

func (a Album) Key() string { return a.ID }

func (a Album) Validate() error {
	if a.ID == "" || a.LibraryID == "" {
		return fmt.Errorf("album id and library id are required")
	}
	return nil
}

// Song inherits its album's cover art reference when it has none of its own.
type Song struct {
	ID          string
	LibraryID   string
	Title       string
	ArtistID    string
	ArtistName  string
	AlbumID     string
	AlbumName   string
	Track       int
	DiscNumber  int // defaults to 1 when the remote omits it
	Duration    int // seconds
	ContentType string
	CoverArt    string
}

func (s Song) Key() string { return s.ID }

func (s Song) Validate() error {
	if s.ID == "" || s.LibraryID == "" {
		return fmt.Errorf("song id and library id are required")
	}
	return nil
}

// Playlist membership is resolved live per playlist id, not persisted as
// join rows.
type Playlist struct {
	ID        string
	LibraryID string
	Name      string
	Owner     string
	Created   string
	Modified  string
	SongCount int
	Duration  int
}

func (p Playlist) Key() string { return p.ID }

func (p Playlist) Validate() error {
	if p.ID == "" || p.LibraryID == "" {
		return fmt.Errorf("playlist id and library id are required")
	}
	return nil
}
