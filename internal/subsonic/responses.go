package subsonic

// Response DTOs for the endpoints the sync engine consumes. Field sets are
// the subset of OpenSubsonic the mirror persists, not the full protocol.

// BaseResponse carries the status fields common to every envelope payload.
type BaseResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	ServerVersion string `json:"serverVersion"`
	Error         *Error `json:"error,omitempty"`
}

// Error is the application-level error embedded in a failed envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ArtistsID3 is the getArtists payload: artists bucketed by index letter.
type ArtistsID3 struct {
	IgnoredArticles string     `json:"ignoredArticles"`
	Index           []IndexID3 `json:"index"`
}

// IndexID3 is one index letter bucket.
type IndexID3 struct {
	Name   string      `json:"name"`
	Artist []ArtistID3 `json:"artist"`
}

// ArtistID3 is an artist entry from ID3 tags.
type ArtistID3 struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtistWithAlbumsID3 is the getArtist payload.
type ArtistWithAlbumsID3 struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Album []AlbumID3 `json:"album"`
}

// AlbumID3 is an album from ID3 tags. ArtistID may be empty when the remote
// cannot resolve the album to a known artist.
type AlbumID3 struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	ArtistID string `json:"artistId,omitempty"`
	CoverArt string `json:"coverArt"`
	Duration int    `json:"duration"`
	Year     int    `json:"year,omitempty"`
}

// AlbumID3WithSongs is the getAlbum payload.
type AlbumID3WithSongs struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	CoverArt string  `json:"coverArt"`
	Duration int     `json:"duration"`
	Year     int     `json:"year,omitempty"`
	Song     []Child `json:"song"`
}

// Child is a song entry. Optional numeric fields decode to 0 when the
// remote omits them; the transform stage applies defaults.
type Child struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	AlbumID     string `json:"albumId"`
	Album       string `json:"album"`
	ArtistID    string `json:"artistId,omitempty"`
	Artist      string `json:"artist"`
	Track       int    `json:"track,omitempty"`
	DiscNumber  int    `json:"discNumber,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	ContentType string `json:"contentType"`
	CoverArt    string `json:"coverArt,omitempty"`
}

// AlbumList2 is the getAlbumList2 payload.
type AlbumList2 struct {
	Album []AlbumID3 `json:"album"`
}

// Playlists is the getPlaylists payload.
type Playlists struct {
	Playlist []Playlist `json:"playlist"`
}

// Playlist is a playlist header; entries are fetched separately.
type Playlist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Created   string `json:"created"`
	Changed   string `json:"changed"`
	SongCount int    `json:"songCount,omitempty"`
	Duration  int    `json:"duration,omitempty"`
}

// PlaylistWithEntries is the getPlaylist payload.
type PlaylistWithEntries struct {
	ID    string  `json:"id"`
	Entry []Child `json:"entry"`
}

type getArtistsResponse struct {
	BaseResponse
	Artists ArtistsID3 `json:"artists"`
}

type getArtistResponse struct {
	BaseResponse
	Artist ArtistWithAlbumsID3 `json:"artist"`
}

type getAlbumResponse struct {
	BaseResponse
	Album AlbumID3WithSongs `json:"album"`
}

type getAlbumList2Response struct {
	BaseResponse
	AlbumList2 AlbumList2 `json:"albumList2"`
}

type getPlaylistsResponse struct {
	BaseResponse
	Playlists Playlists `json:"playlists"`
}

type getPlaylistResponse struct {
	BaseResponse
	Playlist PlaylistWithEntries `json:"playlist"`
}
