package core

import (
	"fmt"
	"strings"
)

const (
	spotifyTrackURL    = "https://open.spotify.com/track/"
	spotifyPlaylistURL = "https://open.spotify.com/playlist/"
	youtubeWatchURL    = "https://www.youtube.com/watch?v="
	youtubeThumbURL    = "https://i.ytimg.com/vi/%s/0.jpg"
	ytMusicWatchURL    = "https://music.youtube.com/watch?v="

	// UnknownDate replaces a publish date the provider did not send.
	UnknownDate = "xxxx-xx-xx"

	maxDescriptionRunes = 100
	publishDateLength   = 10
)

// MusicVideoType is YouTube Music's classification of an uploaded video.
type MusicVideoType string

const (
	// VideoTypeOMV marks an official music video.
	VideoTypeOMV MusicVideoType = "MUSIC_VIDEO_TYPE_OMV"
	// VideoTypeATV marks an audio-only track upload with album art.
	VideoTypeATV MusicVideoType = "MUSIC_VIDEO_TYPE_ATV"
)

// Track is a Spotify track.
type Track struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Artists     []string `json:"artists"`
	ReleaseDate string   `json:"releaseDate"`
	CoverURL    string   `json:"coverUrl"`
}

// IsSingleArtist reports whether the track has exactly one artist.
func (t Track) IsSingleArtist() bool {
	return len(t.Artists) == 1
}

// URL returns the canonical open.spotify.com link.
func (t Track) URL() string {
	return spotifyTrackURL + t.ID
}

// Playlist is a Spotify playlist with the first page of its tracks.
type Playlist struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ID          string  `json:"id"`
	CoverURL    string  `json:"coverUrl"`
	Tracks      []Track `json:"tracks"`
	TotalTracks int     `json:"totalTracks"`
	PageLimit   int     `json:"pageLimit"`
	OwnerID     string  `json:"ownerId"`
	Owner       *User   `json:"owner,omitempty"`
}

// IsQueryLimited reports whether the track list was cut at the page limit.
func (p Playlist) IsQueryLimited() bool {
	return len(p.Tracks) == p.PageLimit
}

// URL returns the canonical open.spotify.com link.
func (p Playlist) URL() string {
	return spotifyPlaylistURL + p.ID
}

// User is a Spotify user profile.
type User struct {
	DisplayName string `json:"displayName"`
	ID          string `json:"id"`
	ProfileURL  string `json:"profileUrl"`
	AvatarURL   string `json:"avatarUrl"`
}

// Video is a YouTube video.
type Video struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PublishedDate string `json:"publishedDate"`
}

// NewVideo builds a Video, truncating the description and the publish timestamp.
func NewVideo(id, title, description, publishedAt string) Video {
	return Video{
		ID:            id,
		Title:         title,
		Description:   TruncateDescription(description),
		PublishedDate: PublishedDate(publishedAt),
	}
}

// URL returns the youtube.com watch link.
func (v Video) URL() string {
	return youtubeWatchURL + v.ID
}

// ThumbnailURL returns the default-size thumbnail.
func (v Video) ThumbnailURL() string {
	return fmt.Sprintf(youtubeThumbURL, v.ID)
}

// TruncateDescription cuts s to 100 runes and appends "..." when it was longer.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionRunes {
		return s
	}
	return string(runes[:maxDescriptionRunes]) + "..."
}

// PublishedDate returns the YYYY-MM-DD prefix of an RFC 3339 timestamp, or UnknownDate.
func PublishedDate(timestamp string) string {
	if len(timestamp) < publishDateLength {
		return UnknownDate
	}
	return timestamp[:publishDateLength]
}

// MusicTrack is a YouTube Music song.
type MusicTrack struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Artists      []string `json:"artists"`
	ThumbnailURL string   `json:"thumbnailUrl"`
}

// URL returns the music.youtube.com watch link.
func (m MusicTrack) URL() string {
	return ytMusicWatchURL + m.ID
}

// MusicCandidate is one entry of a YouTube Music song search.
type MusicCandidate struct {
	ID           string
	Title        string
	Artists      []string
	ThumbnailURL string
	VideoType    MusicVideoType
}

// SongDetails is the by-id YouTube Music lookup payload.
type SongDetails struct {
	ID           string
	Title        string
	Author       string // Artists joined with " & ".
	ThumbnailURL string
	VideoType    MusicVideoType
}

// NewMusicTrackFromCandidate builds a MusicTrack from a search candidate.
func NewMusicTrackFromCandidate(c MusicCandidate) MusicTrack {
	return MusicTrack{
		ID:           c.ID,
		Title:        c.Title,
		Artists:      append([]string(nil), c.Artists...),
		ThumbnailURL: trimThumbnailSize(c.ThumbnailURL),
	}
}

// MusicTrackFromSong builds a MusicTrack from a by-id lookup.
func MusicTrackFromSong(s SongDetails) MusicTrack {
	var track MusicTrack
	track.ID = s.ID
	track.Title = s.Title
	track.Artists = splitAuthor(s.Author)
	track.ThumbnailURL = trimThumbnailSize(s.ThumbnailURL)
	return track
}

// complete reports whether the track carries everything a cross-platform search needs.
func (m MusicTrack) complete() bool {
	return m.ID != "" && m.Title != "" && len(m.Artists) > 0
}

func splitAuthor(author string) []string {
	if author == "" {
		return nil
	}
	parts := strings.Split(author, " & ")
	artists := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			artists = append(artists, p)
		}
	}
	return artists
}

// trimThumbnailSize drops the "=w60-h60-..." sizing suffix of googleusercontent URLs.
func trimThumbnailSize(u string) string {
	base, _, _ := strings.Cut(u, "=")
	return base
}
