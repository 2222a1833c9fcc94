package main

import (
	"fmt"
	"io"
	"strings"

	"spoyt/internal/core"
	"spoyt/internal/i18n"
)

// writeText prints a human readable summary of res, one record per block.
func writeText(w io.Writer, res *core.Result, localizer *i18n.Localizer) {
	if t := res.Track; t != nil {
		line := localizer.T("format.track", strings.Join(t.Artists, ", "), t.Name)
		if t.ReleaseDate != "" {
			line += localizer.T("format.release_date", t.ReleaseDate)
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, localizer.T("format.url", t.URL()))
		fmt.Fprintln(w)
	}

	if p := res.Playlist; p != nil {
		owner := localizer.T("format.owner_unknown")
		if p.Owner != nil && p.Owner.DisplayName != "" {
			owner = p.Owner.DisplayName
		}
		fmt.Fprintln(w, localizer.T("format.playlist", p.Name, owner))
		if p.IsQueryLimited() && p.TotalTracks > len(p.Tracks) {
			fmt.Fprintln(w, localizer.T("format.limited", len(p.Tracks), p.TotalTracks))
		} else {
			fmt.Fprintln(w, localizer.T("format.playlist_size", p.TotalTracks))
		}
		for i, t := range p.Tracks {
			fmt.Fprintf(w, "%2d. %s - %s\n", i+1, strings.Join(t.Artists, ", "), t.Name)
		}
		fmt.Fprintln(w, localizer.T("format.url", p.URL()))
		fmt.Fprintln(w)
	}

	if v := res.Video; v != nil {
		fmt.Fprintln(w, localizer.T("format.video", v.Title, v.PublishedDate))
		fmt.Fprintln(w, localizer.T("format.url", v.URL()))
		fmt.Fprintln(w)
	}

	if m := res.MusicTrack; m != nil {
		fmt.Fprintln(w, localizer.T("format.music_track", strings.Join(m.Artists, ", "), m.Title))
		fmt.Fprintln(w, localizer.T("format.url", m.URL()))
		fmt.Fprintln(w)
	}

	for _, e := range res.Errors {
		fmt.Fprintf(w, "⚠️ %s\n", localizer.Error(string(e.Kind), string(e.Platform)))
	}
	if len(res.Skipped) > 0 {
		legs := make([]string, len(res.Skipped))
		for i, leg := range res.Skipped {
			legs[i] = string(leg)
		}
		fmt.Fprintln(w, localizer.T("format.skipped", strings.Join(legs, ", ")))
	}
}
