package musiclink

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	youtubeHost      = "youtube.com"
	youtubeShortHost = "youtu.be"
	youtubeMusicHost = "music.youtube.com"
)

// YouTubeMatcher handles plain YouTube video links.
type YouTubeMatcher struct{}

// NewYouTubeMatcher creates a matcher for youtube.com and youtu.be links.
func NewYouTubeMatcher() *YouTubeMatcher {
	return &YouTubeMatcher{}
}

// CanParse checks if the URL is a YouTube link.
func (m *YouTubeMatcher) CanParse(rawURL string) bool {
	switch Hostname(rawURL) {
	case youtubeHost, youtubeShortHost:
		return true
	}
	return false
}

// Parse extracts the video ID. youtu.be links carry the ID in the path.
func (m *YouTubeMatcher) Parse(rawURL string) (*Link, error) {
	if !m.CanParse(rawURL) {
		return nil, fmt.Errorf("%w: not a YouTube URL", ErrUnrecognizedInput)
	}

	var (
		videoID string
		err     error
	)
	if Hostname(rawURL) == youtubeShortHost {
		videoID, err = shortLinkID(rawURL)
	} else {
		videoID, err = YouTubeURLToID(rawURL)
	}
	if err != nil {
		return nil, err
	}

	return &Link{Platform: PlatformYouTube, Kind: KindVideo, ID: videoID, URL: rawURL}, nil
}

func shortLinkID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	videoID := strings.Trim(u.Path, "/")
	if videoID == "" || strings.Contains(videoID, "/") {
		return "", fmt.Errorf("%w: no video ID in youtu.be URL", ErrMalformedURL)
	}
	return videoID, nil
}

// YouTubeMusicMatcher handles music.youtube.com track links.
type YouTubeMusicMatcher struct{}

// NewYouTubeMusicMatcher creates a matcher for music.youtube.com links.
func NewYouTubeMusicMatcher() *YouTubeMusicMatcher {
	return &YouTubeMusicMatcher{}
}

// CanParse checks if the URL is a YouTube Music link.
func (m *YouTubeMusicMatcher) CanParse(rawURL string) bool {
	return Hostname(rawURL) == youtubeMusicHost
}

// Parse extracts the track's video ID from the "v" parameter.
func (m *YouTubeMusicMatcher) Parse(rawURL string) (*Link, error) {
	if !m.CanParse(rawURL) {
		return nil, fmt.Errorf("%w: not a YouTube Music URL", ErrUnrecognizedInput)
	}

	videoID, err := YouTubeURLToID(rawURL)
	if err != nil {
		return nil, err
	}

	return &Link{Platform: PlatformYouTubeMusic, Kind: KindTrack, ID: videoID, URL: rawURL}, nil
}
