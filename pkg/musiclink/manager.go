package musiclink

import (
	"fmt"
)

// Manager coordinates the platform matchers.
type Manager struct {
	matchers []Matcher
}

// NewManager creates a new link manager with all supported matchers.
func NewManager() *Manager {
	return &Manager{
		matchers: []Matcher{
			NewSpotifyMatcher(),
			NewYouTubeMusicMatcher(),
			NewYouTubeMatcher(),
		},
	}
}

// Parse classifies a URL and extracts its catalog ID.
func (m *Manager) Parse(rawURL string) (*Link, error) {
	for _, matcher := range m.matchers {
		if matcher.CanParse(rawURL) {
			return matcher.Parse(rawURL)
		}
	}

	return nil, fmt.Errorf("%w: unsupported host %q", ErrUnrecognizedInput, Hostname(rawURL))
}

// CanParse checks if any matcher handles the given URL.
func (m *Manager) CanParse(rawURL string) bool {
	for _, matcher := range m.matchers {
		if matcher.CanParse(rawURL) {
			return true
		}
	}
	return false
}

// Classify returns the platform of rawURL without extracting an ID.
func Classify(rawURL string) (Platform, error) {
	switch Hostname(rawURL) {
	case spotifyHost:
		return PlatformSpotify, nil
	case youtubeMusicHost:
		return PlatformYouTubeMusic, nil
	case youtubeHost, youtubeShortHost:
		return PlatformYouTube, nil
	}
	return "", fmt.Errorf("%w: unsupported host %q", ErrUnrecognizedInput, Hostname(rawURL))
}
