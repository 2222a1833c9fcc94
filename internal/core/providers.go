package core

import (
	"context"
	"time"
)

// SpotifyCatalog defines the Spotify lookups the resolver needs.
// Implementations return *Error values classified per call.
type SpotifyCatalog interface {
	Track(ctx context.Context, id string) (*Track, error)
	// Playlist returns the playlist with its first page of tracks. Only OwnerID is set, Owner stays nil.
	Playlist(ctx context.Context, id string) (*Playlist, error)
	User(ctx context.Context, id string) (*User, error)
	// SearchTracks returns the canonical URLs of the matching tracks in rank order.
	SearchTracks(ctx context.Context, query string, limit int) ([]string, error)
}

// VideoCatalog defines the generic video search and lookup.
type VideoCatalog interface {
	SearchVideos(ctx context.Context, query string, limit int) ([]Video, error)
	Video(ctx context.Context, id string) (*Video, error)
}

// MusicCatalog defines the YouTube Music song search and lookup.
type MusicCatalog interface {
	SearchSongs(ctx context.Context, query string, limit int) ([]MusicCandidate, error)
	Song(ctx context.Context, id string) (*SongDetails, error)
}

// MetricsRecorder receives resolution telemetry.
type MetricsRecorder interface {
	RecordResolution(inputKind string, primaryOK bool, duration time.Duration)
	RecordLegError(platform string, leg string, kind string)
	RecordSelection(rule string)
	RecordClassificationFailure()
}

type nopMetrics struct{}

func (nopMetrics) RecordResolution(string, bool, time.Duration) {}
func (nopMetrics) RecordLegError(string, string, string)        {}
func (nopMetrics) RecordSelection(string)                       {}
func (nopMetrics) RecordClassificationFailure()                 {}
