package musiclink

import (
	"fmt"
	"net/url"
	"strings"
)

const spotifyHost = "open.spotify.com"

// spotifyKinds maps the leading path segment to the entity kind.
var spotifyKinds = map[string]Kind{
	"/track/":    KindTrack,
	"/playlist/": KindPlaylist,
}

// SpotifyMatcher handles open.spotify.com track and playlist links.
type SpotifyMatcher struct{}

// NewSpotifyMatcher creates a matcher for Spotify links.
func NewSpotifyMatcher() *SpotifyMatcher {
	return &SpotifyMatcher{}
}

// CanParse checks if the URL is hosted on open.spotify.com.
func (m *SpotifyMatcher) CanParse(rawURL string) bool {
	return Hostname(rawURL) == spotifyHost
}

// Parse returns a track or playlist Link. Other Spotify paths (album, artist, ...) are unrecognized.
func (m *SpotifyMatcher) Parse(rawURL string) (*Link, error) {
	if !m.CanParse(rawURL) {
		return nil, fmt.Errorf("%w: not a Spotify URL", ErrUnrecognizedInput)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	for prefix, kind := range spotifyKinds {
		if !strings.HasPrefix(u.Path, prefix) {
			continue
		}
		id := URLToID(rawURL)
		if id == "" {
			return nil, fmt.Errorf("%w: no %s ID in %q", ErrMalformedURL, kind, rawURL)
		}
		return &Link{Platform: PlatformSpotify, Kind: kind, ID: id, URL: rawURL}, nil
	}

	return nil, fmt.Errorf("%w: unsupported Spotify path %q", ErrUnrecognizedInput, u.Path)
}
