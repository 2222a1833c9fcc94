// Package musiclink classifies music links and extracts their catalog identifiers.
package musiclink

import (
	"errors"
)

// Platform identifies the streaming platform a link belongs to.
type Platform string

const (
	// PlatformSpotify is open.spotify.com.
	PlatformSpotify Platform = "spotify"
	// PlatformYouTube is youtube.com and youtu.be.
	PlatformYouTube Platform = "youtube"
	// PlatformYouTubeMusic is music.youtube.com.
	PlatformYouTubeMusic Platform = "youtube-music"
)

// Kind is the shape of the referenced entity.
type Kind string

const (
	KindTrack    Kind = "track"
	KindPlaylist Kind = "playlist"
	KindVideo    Kind = "video"
	// KindQuery marks free text that is searched for instead of looked up.
	KindQuery Kind = "query"
)

var (
	// ErrMalformedURL is returned when a recognized URL lacks the component holding its id.
	ErrMalformedURL = errors.New("malformed url")
	// ErrUnrecognizedInput is returned for hosts and paths no matcher supports.
	ErrUnrecognizedInput = errors.New("unrecognized input")
)

// Link is a validated reference to a catalog entity, or a search query.
type Link struct {
	Platform Platform // Empty for KindQuery.
	Kind     Kind
	ID       string // Catalog id; empty for KindQuery.
	Query    string // Search text; only set for KindQuery.
	URL      string // Original URL as given, if any.
}

// IsQuery reports whether the link is a free-text search.
func (l Link) IsQuery() bool {
	return l.Kind == KindQuery
}

// Matcher recognizes the URLs of one platform.
type Matcher interface {
	// CanParse checks if this matcher handles the URL's host.
	CanParse(rawURL string) bool

	// Parse extracts a Link from a URL accepted by CanParse.
	Parse(rawURL string) (*Link, error)
}
