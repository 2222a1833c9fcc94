package i18n

// berneseGermanMessages contains all Bernese Swiss German (Bärndütsch) translations
var berneseGermanMessages = map[string]string{
	// Error messages, keyed by error kind
	"error.NotFound":            "Ha uf %s nüt passends gfunde.",
	"error.ProviderUnreachable": "%s isch grad nid erreichbar. Probier's haut spöter nomau.",
	"error.Forbidden":           "%s het d Aafrag abgwise. Dr Betreiber söu d Zuegangsdate u s Kontingent aaluege.",
	"error.MalformedUrl":        "I däm Link fäut dr Teil, wo dr Song oder s Video bestimmt.",
	"error.UnrecognizedInput":   "Die Iigab kenne-n-i nid. Schick mr e Spotify-, YouTube- oder YouTube-Music-Link, oder ä chli Suechtext.",
	"error.generic":             "Öppis isch schief gloffe. Probier's haut nomau, bitte.",
	"error.rate_limited":        "Gmüetlech! Z viu Aafrage, wart es Momäntli.",

	// Platform names
	"platform.spotify":       "Spotify",
	"platform.youtube":       "YouTube",
	"platform.youtube-music": "YouTube Music",
	"platform.unknown":       "Dr Aabieter",

	// Result labels
	"format.track":         "🎵 %s - %s",
	"format.release_date":  " (%s)",
	"format.playlist":      "📃 %s vo %s",
	"format.playlist_size": "%d Songs",
	"format.limited":       "zeigt di erschte %d vo %d Songs",
	"format.video":         "📺 %s (veröffentlecht am %s)",
	"format.music_track":   "🎧 %s - %s",
	"format.url":           "🔗 %s",
	"format.skipped":       "⏭️ Übersprunge: %s",
	"format.owner_unknown": "emne unbekannte Benutzer",
}
