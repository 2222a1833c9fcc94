package core

import (
	"strings"
)

// Names of the candidate selection rules, in the order they are tried.
const (
	RuleExplicitID         = "explicit-id"
	RuleOfficialVideoTitle = "official-video-title"
	RuleOMV                = "omv"
	RuleTopRank            = "top-rank"
	RuleATV                = "atv"

	officialVideoMarker = "Official Video"
)

// selectionRule matches candidates of type T.
type selectionRule[T any] struct {
	name  string
	match func(T) bool
}

// selectByRules tries each rule in order over the full candidate list, keeping rank order
// within a rule. The first match wins.
func selectByRules[T any](candidates []T, rules []selectionRule[T]) (T, string, bool) {
	for _, rule := range rules {
		for _, c := range candidates {
			if rule.match(c) {
				return c, rule.name, true
			}
		}
	}
	var zero T
	return zero, "", false
}

// classifiedVideo is a video search result with its YouTube Music tag.
// VideoType is empty when classification failed.
type classifiedVideo struct {
	Video     Video
	VideoType MusicVideoType
}

var videoRules = []selectionRule[classifiedVideo]{
	{name: RuleOfficialVideoTitle, match: func(c classifiedVideo) bool {
		return strings.Contains(c.Video.Title, officialVideoMarker)
	}},
	{name: RuleOMV, match: func(c classifiedVideo) bool { return c.VideoType == VideoTypeOMV }},
	{name: RuleTopRank, match: func(classifiedVideo) bool { return true }},
}

var musicRules = []selectionRule[MusicCandidate]{
	{name: RuleATV, match: func(c MusicCandidate) bool {
		return c.VideoType == VideoTypeATV && NewMusicTrackFromCandidate(c).complete()
	}},
}
