package tasks

import "fmt"

// ProgressUpdate represents a progress event during a sync pass.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Pipeline phase enumeration. Fetch phases run in order except cover art,
// which only depends on albums and runs alongside the song fetch.
type Phase int

const (
	Idle Phase = iota
	FetchingArtists
	FetchingAlbums
	FetchingSongs
	FetchingCoverArt
	FetchingPlaylists
	Transforming
	Reconciling
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case FetchingArtists:
		return "fetching_artists"
	case FetchingAlbums:
		return "fetching_albums"
	case FetchingSongs:
		return "fetching_songs"
	case FetchingCoverArt:
		return "fetching_cover_art"
	case FetchingPlaylists:
		return "fetching_playlists"
	case Transforming:
		return "transforming"
	case Reconciling:
		return "reconciling"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func phaseUpdate(phase Phase, step, total int, format string, args ...any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf(format, args...),
	}
}
