package spotify

import (
	"github.com/zmb3/spotify/v2"

	"spoyt/internal/core"
)

func convertTrack(track *spotify.FullTrack) core.Track {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	var cover string
	if len(track.Album.Images) > 0 {
		cover = track.Album.Images[0].URL
	}

	return core.Track{
		Name:        track.Name,
		ID:          string(track.ID),
		Artists:     artists,
		ReleaseDate: track.Album.ReleaseDate,
		CoverURL:    cover,
	}
}

// convertPlaylist keeps at most pageLimit tracks. Local files and tracks without an id
// or artists are skipped.
func convertPlaylist(playlist *spotify.FullPlaylist, pageLimit int) core.Playlist {
	var cover string
	if len(playlist.Images) > 0 {
		cover = playlist.Images[0].URL
	}

	tracks := make([]core.Track, 0, pageLimit)
	for i := range playlist.Tracks.Tracks {
		if len(tracks) >= pageLimit {
			break
		}
		item := &playlist.Tracks.Tracks[i]
		if item.IsLocal || item.Track.ID == "" || len(item.Track.Artists) == 0 {
			continue
		}
		tracks = append(tracks, convertTrack(&item.Track))
	}

	return core.Playlist{
		Name:        playlist.Name,
		Description: playlist.Description,
		ID:          string(playlist.ID),
		CoverURL:    cover,
		Tracks:      tracks,
		TotalTracks: int(playlist.Tracks.Total),
		PageLimit:   pageLimit,
		OwnerID:     string(playlist.Owner.ID),
	}
}

// convertUser uses the last profile image, which Spotify lists largest first.
func convertUser(user *spotify.User) core.User {
	var avatar string
	if len(user.Images) > 0 {
		avatar = user.Images[len(user.Images)-1].URL
	}

	return core.User{
		DisplayName: user.DisplayName,
		ID:          string(user.ID),
		ProfileURL:  user.ExternalURLs["spotify"],
		AvatarURL:   avatar,
	}
}

func trackURL(track *spotify.FullTrack) string {
	if u := track.ExternalURLs["spotify"]; u != "" {
		return u
	}
	return core.Track{ID: string(track.ID)}.URL()
}
