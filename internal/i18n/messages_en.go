package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error messages, keyed by error kind
	"error.NotFound":            "Couldn't find a match on %s.",
	"error.ProviderUnreachable": "%s isn't reachable right now. Please try again later.",
	"error.Forbidden":           "%s refused the request. The operator should check the credentials and quota.",
	"error.MalformedUrl":        "That link is missing the part that identifies the track or video.",
	"error.UnrecognizedInput":   "I don't know this kind of input. Send a Spotify, YouTube or YouTube Music link, or some search text.",
	"error.generic":             "Something went wrong. Please try again.",
	"error.rate_limited":        "Easy there! Too many requests, please wait a moment.",

	// Platform names
	"platform.spotify":       "Spotify",
	"platform.youtube":       "YouTube",
	"platform.youtube-music": "YouTube Music",
	"platform.unknown":       "The provider",

	// Result labels
	"format.track":         "🎵 %s - %s",
	"format.release_date":  " (%s)",
	"format.playlist":      "📃 %s by %s",
	"format.playlist_size": "%d tracks",
	"format.limited":       "showing the first %d of %d tracks",
	"format.video":         "📺 %s (published %s)",
	"format.music_track":   "🎧 %s - %s",
	"format.url":           "🔗 %s",
	"format.skipped":       "⏭️ Skipped: %s",
	"format.owner_unknown": "an unknown user",
}
