package musiclink

import (
	"fmt"
	"net/url"
	"strings"
)

// URLToID strips query parameters and returns the last path segment of a catalog URL.
//
// For example "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT?si=8a1b522f00744ee1"
// becomes "4cOdK2wGLETKBW3PvgPWqT". The id format is not validated.
func URLToID(rawURL string) string {
	s, _, _ := strings.Cut(rawURL, "?")
	s, _, _ = strings.Cut(s, "&")
	return s[strings.LastIndex(s, "/")+1:]
}

// YouTubeURLToID returns the "v" query parameter of a YouTube watch URL.
func YouTubeURLToID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	videoID := u.Query().Get("v")
	if videoID == "" {
		return "", fmt.Errorf("%w: no video ID in %q", ErrMalformedURL, rawURL)
	}
	return videoID, nil
}

// Hostname returns the lowercased host of rawURL with a leading "www." removed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
