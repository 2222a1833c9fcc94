package core

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TrackQuery composes the "{title} {artist...}" search string used across platforms.
func TrackQuery(title string, artists []string) string {
	parts := make([]string, 0, len(artists)+1)
	if title = strings.TrimSpace(title); title != "" {
		parts = append(parts, title)
	}
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return norm.NFC.String(strings.Join(parts, " "))
}

// JoinArtists joins artist names the way Spotify displays them.
func JoinArtists(artists []string) string {
	return strings.Join(artists, ", ")
}

// firstArtist returns the first comma-separated artist of a joined artist string.
func firstArtist(artists string) string {
	first, _, _ := strings.Cut(artists, ",")
	return strings.TrimSpace(first)
}

func spotifyTrackQuery(title, artists string) string {
	return norm.NFC.String("track:" + title + " artist:" + artists)
}
