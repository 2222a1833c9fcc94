package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spoyt/pkg/musiclink"
)

const (
	// DefaultRequestTimeout bounds every single provider call.
	DefaultRequestTimeout = 10 * time.Second

	searchLimit         = 5
	classifyConcurrency = 5
	trackMatchLimit     = 1
)

// Resolver looks up canonical records and matches tracks across platforms.
type Resolver struct {
	spotify SpotifyCatalog
	videos  VideoCatalog
	music   MusicCatalog
	logger  *zap.Logger
	metrics MetricsRecorder
	timeout time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMetrics sets the recorder for selection and classification telemetry.
func WithMetrics(m MetricsRecorder) ResolverOption {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewResolver creates a resolver over the given catalogs.
func NewResolver(spotify SpotifyCatalog, videos VideoCatalog, music MusicCatalog,
	logger *zap.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		spotify: spotify,
		videos:  videos,
		music:   music,
		logger:  logger,
		metrics: nopMetrics{},
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// TrackByID fetches a Spotify track.
func (r *Resolver) TrackByID(ctx context.Context, id string) (*Track, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	track, err := r.spotify.Track(callCtx, id)
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformSpotify, LegTrackLookup)
	}
	return track, nil
}

// UserByID fetches a Spotify user profile.
func (r *Resolver) UserByID(ctx context.Context, id string) (*User, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	user, err := r.spotify.User(callCtx, id)
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformSpotify, LegOwnerLookup)
	}
	return user, nil
}

// PlaylistByID fetches a Spotify playlist and its owner. A failed owner lookup fails the whole call.
func (r *Resolver) PlaylistByID(ctx context.Context, id string) (*Playlist, error) {
	playlist, ownerErr := r.playlistByID(ctx, id)
	if playlist == nil {
		return nil, ownerErr
	}
	if ownerErr != nil {
		return nil, ownerErr
	}
	return playlist, nil
}

// playlistByID returns the playlist with Owner left nil when only the owner lookup failed,
// together with that failure. A nil playlist means the playlist lookup itself failed.
func (r *Resolver) playlistByID(ctx context.Context, id string) (*Playlist, *Error) {
	callCtx, cancel := r.callContext(ctx)
	playlist, err := r.spotify.Playlist(callCtx, id)
	cancel()
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformSpotify, LegPlaylist)
	}

	owner, err := r.UserByID(ctx, playlist.OwnerID)
	if err != nil {
		var e *Error
		errors.As(err, &e)
		return playlist, e
	}
	playlist.Owner = owner
	return playlist, nil
}

// MusicTrackByID fetches a YouTube Music song by video id.
func (r *Resolver) MusicTrackByID(ctx context.Context, id string) (*MusicTrack, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	song, err := r.music.Song(callCtx, id)
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformYouTubeMusic, LegMusicLookup)
	}
	track := MusicTrackFromSong(*song)
	if !track.complete() {
		err = NewError(KindProviderUnreachable, musiclink.PlatformYouTubeMusic, id, ErrEmptyPayload)
		return nil, atLeg(err, musiclink.PlatformYouTubeMusic, LegMusicLookup)
	}
	return &track, nil
}

// VideoByID fetches a YouTube video.
func (r *Resolver) VideoByID(ctx context.Context, id string) (*Video, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	video, err := r.videos.Video(callCtx, id)
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformYouTube, LegVideoSearch)
	}
	return video, nil
}

// BestVideo picks the video for query. A non-empty videoID is returned as is, without searching.
func (r *Resolver) BestVideo(ctx context.Context, query, videoID string) (*Video, error) {
	if videoID != "" {
		video, err := r.VideoByID(ctx, videoID)
		if err != nil {
			return nil, err
		}
		r.metrics.RecordSelection(RuleExplicitID)
		return video, nil
	}

	callCtx, cancel := r.callContext(ctx)
	videos, err := r.videos.SearchVideos(callCtx, query, searchLimit)
	cancel()
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformYouTube, LegVideoSearch)
	}
	if len(videos) == 0 {
		return nil, r.notFound(musiclink.PlatformYouTube, LegVideoSearch, query)
	}
	if len(videos) > searchLimit {
		videos = videos[:searchLimit]
	}

	candidates := r.classifyVideos(ctx, videos)

	selected, rule, ok := selectByRules(candidates, videoRules)
	if !ok {
		return nil, r.notFound(musiclink.PlatformYouTube, LegVideoSearch, query)
	}

	r.logger.Debug("Selected video",
		zap.String("query", query),
		zap.String("videoID", selected.Video.ID),
		zap.String("rule", rule))
	r.metrics.RecordSelection(rule)

	video := selected.Video
	return &video, nil
}

// classifyVideos tags every video with its music video type. All lookups finish before
// the result is returned, so rank order is independent of completion order.
func (r *Resolver) classifyVideos(ctx context.Context, videos []Video) []classifiedVideo {
	candidates := make([]classifiedVideo, len(videos))

	var g errgroup.Group
	g.SetLimit(classifyConcurrency)

	for i, video := range videos {
		candidates[i].Video = video
		g.Go(func() error {
			callCtx, cancel := r.callContext(ctx)
			defer cancel()

			song, err := r.music.Song(callCtx, video.ID)
			if err != nil {
				r.logger.Warn("Failed to classify video candidate",
					zap.String("videoID", video.ID),
					zap.Int("rank", i+1),
					zap.Error(err))
				r.metrics.RecordClassificationFailure()
				return nil
			}
			candidates[i].VideoType = song.VideoType
			return nil
		})
	}
	_ = g.Wait()

	return candidates
}

// BestMusicTrack returns the first audio-track (ATV) song among the top search results.
// Candidates without a title or artists are never selected.
func (r *Resolver) BestMusicTrack(ctx context.Context, query string) (*MusicTrack, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	candidates, err := r.music.SearchSongs(callCtx, query, searchLimit)
	if err != nil {
		return nil, atLeg(err, musiclink.PlatformYouTubeMusic, LegMusicSearch)
	}
	if len(candidates) > searchLimit {
		candidates = candidates[:searchLimit]
	}

	selected, rule, ok := selectByRules(candidates, musicRules)
	if !ok {
		return nil, r.notFound(musiclink.PlatformYouTubeMusic, LegMusicSearch, query)
	}
	r.metrics.RecordSelection(rule)

	track := NewMusicTrackFromCandidate(selected)
	return &track, nil
}

// TrackByNameAndArtist finds the Spotify track for a title and a comma-joined artist string.
// When the full artist string yields nothing, the search is retried once with the first artist.
func (r *Resolver) TrackByNameAndArtist(ctx context.Context, title, artists string) (*Track, error) {
	query := spotifyTrackQuery(title, artists)

	urls, err := r.searchTracks(ctx, query)
	if err != nil {
		return nil, r.matchError(err, query)
	}

	if len(urls) == 0 {
		if first := firstArtist(artists); first != artists {
			query = spotifyTrackQuery(title, first)
			r.logger.Debug("Retrying track match with first artist", zap.String("query", query))

			urls, err = r.searchTracks(ctx, query)
			if err != nil {
				return nil, r.matchError(err, query)
			}
		}
	}
	if len(urls) == 0 {
		return nil, r.notFound(musiclink.PlatformSpotify, LegTrackMatch, query)
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	id := musiclink.URLToID(urls[0])
	track, err := r.spotify.Track(callCtx, id)
	if err != nil {
		return nil, r.matchError(err, id)
	}
	return track, nil
}

func (r *Resolver) searchTracks(ctx context.Context, query string) ([]string, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()
	return r.spotify.SearchTracks(callCtx, query, trackMatchLimit)
}

// matchError collapses track match failures to NotFound, except for denied requests,
// timeouts and empty payloads.
func (r *Resolver) matchError(err error, id string) *Error {
	e := atLeg(err, musiclink.PlatformSpotify, LegTrackMatch)
	switch {
	case e.Kind == KindForbidden:
	case IsTimeout(err), errors.Is(err, ErrEmptyPayload):
		e.Kind = KindProviderUnreachable
	default:
		e.Kind = KindNotFound
	}
	if e.ID == "" {
		e.ID = id
	}
	return e
}

func (r *Resolver) notFound(platform musiclink.Platform, leg Leg, id string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Platform: platform,
		Leg:      leg,
		ID:       id,
		Err:      fmt.Errorf("no matching result for %q", id),
	}
}
