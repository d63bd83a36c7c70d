package tasks

import (
	"github.com/polyphonic/polyphonic/internal/models"
	"github.com/polyphonic/polyphonic/internal/subsonic"
)

// snapshot is the remote library state after the fetch stages, before any
// row derivation.
type snapshot struct {
	artists   []subsonic.ArtistID3
	albums    []subsonic.AlbumID3
	songs     []subsonic.Child
	playlists []subsonic.Playlist
}

// libraryRows is the transformed, storage-ready view of a snapshot.
type libraryRows struct {
	artists   []models.Artist
	albums    []models.Album
	songs     []models.Song
	playlists []models.Playlist

	artistIDs   []string
	albumIDs    []string
	songIDs     []string
	playlistIDs []string
}

// flattenIndex collapses the letter-bucketed artist index into a flat slice.
func flattenIndex(index subsonic.ArtistsID3) []subsonic.ArtistID3 {
	var artists []subsonic.ArtistID3
	for _, bucket := range index.Index {
		artists = append(artists, bucket.Artist...)
	}
	return artists
}

// transform derives persistent rows from a fetched snapshot.
//
// Artists with no album crediting their id are dropped, so the mirror only
// lists album artists. Songs missing a disc number get disc 1, and songs
// without their own cover art inherit the parent album's reference. Albums
// carry their crediting artist's id and display name so a row renders even
// when the remote left artistId off the album payload.
func transform(libraryID string, snap snapshot) libraryRows {
	rows := libraryRows{}

	credited := make(map[string]bool, len(snap.artists))
	for _, album := range snap.albums {
		if album.ArtistID != "" {
			credited[album.ArtistID] = true
		}
	}

	artistNames := make(map[string]string, len(snap.artists))
	for _, artist := range snap.artists {
		artistNames[artist.ID] = artist.Name
		if !credited[artist.ID] {
			continue
		}
		rows.artists = append(rows.artists, models.Artist{
			ID:        artist.ID,
			LibraryID: libraryID,
			Name:      artist.Name,
		})
		rows.artistIDs = append(rows.artistIDs, artist.ID)
	}

	albumCovers := make(map[string]string, len(snap.albums))
	albumArtists := make(map[string]subsonic.AlbumID3, len(snap.albums))
	for _, album := range snap.albums {
		name := album.Artist
		if name == "" {
			name = artistNames[album.ArtistID]
		}
		rows.albums = append(rows.albums, models.Album{
			ID:         album.ID,
			LibraryID:  libraryID,
			Name:       album.Name,
			ArtistID:   album.ArtistID,
			ArtistName: name,
			CoverArt:   album.CoverArt,
			Year:       album.Year,
			Duration:   album.Duration,
		})
		rows.albumIDs = append(rows.albumIDs, album.ID)
		albumCovers[album.ID] = album.CoverArt
		albumArtists[album.ID] = album
	}

	for _, song := range snap.songs {
		disc := song.DiscNumber
		if disc == 0 {
			disc = 1
		}
		cover := song.CoverArt
		if cover == "" {
			cover = albumCovers[song.AlbumID]
		}
		artistID := song.ArtistID
		artistName := song.Artist
		if artistID == "" {
			artistID = albumArtists[song.AlbumID].ArtistID
		}
		if artistName == "" {
			artistName = artistNames[artistID]
		}
		rows.songs = append(rows.songs, models.Song{
			ID:          song.ID,
			LibraryID:   libraryID,
			Title:       song.Title,
			ArtistID:    artistID,
			ArtistName:  artistName,
			AlbumID:     song.AlbumID,
			AlbumName:   song.Album,
			Track:       song.Track,
			DiscNumber:  disc,
			Duration:    song.Duration,
			ContentType: song.ContentType,
			CoverArt:    cover,
		})
		rows.songIDs = append(rows.songIDs, song.ID)
	}

	for _, playlist := range snap.playlists {
		rows.playlists = append(rows.playlists, models.Playlist{
			ID:        playlist.ID,
			LibraryID: libraryID,
			Name:      playlist.Name,
			Owner:     playlist.Owner,
			Created:   playlist.Created,
			Modified:  playlist.Changed,
			SongCount: playlist.SongCount,
			Duration:  playlist.Duration,
		})
		rows.playlistIDs = append(rows.playlistIDs, playlist.ID)
	}

	return rows
}

// coverIDs returns the distinct non-empty cover art ids referenced by albums.
func coverIDs(albums []subsonic.AlbumID3) []string {
	seen := make(map[string]bool, len(albums))
	var ids []string
	for _, album := range albums {
		if album.CoverArt == "" || seen[album.CoverArt] {
			continue
		}
		seen[album.CoverArt] = true
		ids = append(ids, album.CoverArt)
	}
	return ids
}
