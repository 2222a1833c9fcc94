package http

import (
	"spoyt/internal/core"
	"spoyt/internal/i18n"
)

// LegError is the JSON form of a failed leg.
type LegError struct {
	Kind     core.Kind `json:"kind"`
	Platform string    `json:"platform,omitempty"`
	Leg      core.Leg  `json:"leg"`
	Message  string    `json:"message"`
}

// Links collects the shareable URLs of the resolved records.
type Links struct {
	Spotify      string `json:"spotify,omitempty"`
	YouTube      string `json:"youtube,omitempty"`
	YouTubeMusic string `json:"youtubeMusic,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

// ResolveResponse is the JSON document returned for one resolution.
type ResolveResponse struct {
	*core.Result
	Errors []LegError `json:"errors,omitempty"`
	Links  Links      `json:"links"`
}

// NewResolveResponse renders res with localized error messages.
func NewResolveResponse(res *core.Result, localizer *i18n.Localizer) ResolveResponse {
	resp := ResolveResponse{Result: res}

	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, LegError{
			Kind:     e.Kind,
			Platform: string(e.Platform),
			Leg:      e.Leg,
			Message:  localizer.Error(string(e.Kind), string(e.Platform)),
		})
	}

	switch {
	case res.Track != nil:
		resp.Links.Spotify = res.Track.URL()
	case res.Playlist != nil:
		resp.Links.Spotify = res.Playlist.URL()
	}
	if res.Video != nil {
		resp.Links.YouTube = res.Video.URL()
		resp.Links.Thumbnail = res.Video.ThumbnailURL()
	}
	if res.MusicTrack != nil {
		resp.Links.YouTubeMusic = res.MusicTrack.URL()
	}

	return resp
}
