package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spoyt/pkg/musiclink"
	"spoyt/pkg/text"
)

// Result is the outcome of one resolution pipeline. Each leg either fills its record
// or adds one entry to Errors.
type Result struct {
	RequestID  string          `json:"requestId"`
	Input      *musiclink.Link `json:"input,omitempty"`
	Primary    Leg             `json:"primary"`
	OK         bool            `json:"ok"`
	Track      *Track          `json:"track,omitempty"`
	Playlist   *Playlist       `json:"playlist,omitempty"`
	Video      *Video          `json:"video,omitempty"`
	MusicTrack *MusicTrack     `json:"musicTrack,omitempty"`
	Errors     []*Error        `json:"-"`
	Skipped    []Leg           `json:"skipped,omitempty"`

	mu sync.Mutex
}

// Err returns the error recorded for leg, or nil.
func (r *Result) Err(leg Leg) *Error {
	for _, e := range r.Errors {
		if e.Leg == leg {
			return e
		}
	}
	return nil
}

// hasPrimary reports whether the record of the primary leg was resolved.
func (r *Result) hasPrimary() bool {
	switch r.Primary {
	case LegTrackLookup:
		return r.Track != nil
	case LegPlaylist:
		return r.Playlist != nil
	case LegVideoSearch:
		return r.Video != nil
	case LegMusicLookup, LegMusicSearch:
		return r.MusicTrack != nil
	}
	return false
}

func (r *Result) fail(err *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}

func (r *Result) skip(legs ...Leg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, legs...)
}

func (r *Result) sortErrors() {
	sort.SliceStable(r.Errors, func(i, j int) bool {
		return legOrder[r.Errors[i].Leg] < legOrder[r.Errors[j].Leg]
	})
	sort.SliceStable(r.Skipped, func(i, j int) bool {
		return legOrder[r.Skipped[i]] < legOrder[r.Skipped[j]]
	})
}

// Pipeline runs a full cross-platform resolution for one input.
type Pipeline struct {
	resolver      *Resolver
	parser        *text.Parser
	logger        *zap.Logger
	ownerRequired bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithOwnerRequired makes a failed playlist owner lookup fail the playlist.
func WithOwnerRequired(required bool) PipelineOption {
	return func(p *Pipeline) {
		p.ownerRequired = required
	}
}

// NewPipeline creates a pipeline over resolver.
func NewPipeline(resolver *Resolver, logger *zap.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		parser:   text.NewParser(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve parses raw input (a link or a search query) and resolves it.
func (p *Pipeline) Resolve(ctx context.Context, input string) *Result {
	link, err := p.parser.Parse(input)
	if err != nil {
		res := &Result{RequestID: uuid.NewString(), Primary: LegExtract}
		res.fail(atLeg(err, "", LegExtract))
		p.finish(res, "invalid", time.Now(), p.logger.With(zap.String("requestID", res.RequestID)))
		return res
	}
	return p.ResolveLink(ctx, link)
}

// ResolveLink resolves an already classified link.
func (p *Pipeline) ResolveLink(ctx context.Context, link *musiclink.Link) *Result {
	start := time.Now()
	res := &Result{RequestID: uuid.NewString(), Input: link}
	logger := p.logger.With(
		zap.String("requestID", res.RequestID),
		zap.String("platform", string(link.Platform)),
		zap.String("kind", string(link.Kind)))

	logger.Debug("Resolving input", zap.String("id", link.ID), zap.String("query", link.Query))

	switch {
	case link.Kind == musiclink.KindQuery:
		p.resolveQuery(ctx, res, link.Query)
	case link.Platform == musiclink.PlatformSpotify && link.Kind == musiclink.KindTrack:
		p.resolveSpotifyTrack(ctx, res, link.ID)
	case link.Platform == musiclink.PlatformSpotify && link.Kind == musiclink.KindPlaylist:
		p.resolveSpotifyPlaylist(ctx, res, link.ID)
	case link.Platform == musiclink.PlatformYouTube:
		p.resolveYouTube(ctx, res, link.ID, true)
	case link.Platform == musiclink.PlatformYouTubeMusic:
		p.resolveYouTube(ctx, res, link.ID, false)
	default:
		res.Primary = LegExtract
		res.fail(&Error{
			Kind:     KindUnrecognizedInput,
			Platform: link.Platform,
			Leg:      LegExtract,
			ID:       link.ID,
			Err:      ErrUnrecognizedInput,
		})
	}

	p.finish(res, string(link.Kind), start, logger)
	return res
}

func (p *Pipeline) finish(res *Result, inputKind string, start time.Time, logger *zap.Logger) {
	res.sortErrors()
	res.OK = res.hasPrimary()

	for _, e := range res.Errors {
		p.resolver.metrics.RecordLegError(string(e.Platform), string(e.Leg), string(e.Kind))
		fields := []zap.Field{
			zap.String("leg", string(e.Leg)),
			zap.String("errorKind", string(e.Kind)),
			zap.Error(e),
		}
		if e.Kind == KindForbidden {
			logger.Error("Provider denied request", fields...)
		} else {
			logger.Info("Resolution leg failed", fields...)
		}
	}

	duration := time.Since(start)
	p.resolver.metrics.RecordResolution(inputKind, res.OK, duration)
	logger.Info("Resolution finished",
		zap.Bool("ok", res.OK),
		zap.Int("failedLegs", len(res.Errors)),
		zap.Duration("duration", duration))
}

func (p *Pipeline) resolveSpotifyTrack(ctx context.Context, res *Result, id string) {
	res.Primary = LegTrackLookup

	track, err := p.resolver.TrackByID(ctx, id)
	if err != nil {
		res.fail(asError(err))
		res.skip(LegVideoSearch, LegMusicSearch)
		return
	}
	res.Track = track

	query := TrackQuery(track.Name, track.Artists)

	var g errgroup.Group
	g.Go(func() error {
		p.videoLeg(ctx, res, query, "")
		return nil
	})
	g.Go(func() error {
		music, err := p.resolver.BestMusicTrack(ctx, query)
		if err != nil {
			res.fail(asError(err))
			return nil
		}
		res.MusicTrack = music
		return nil
	})
	_ = g.Wait()
}

func (p *Pipeline) resolveSpotifyPlaylist(ctx context.Context, res *Result, id string) {
	res.Primary = LegPlaylist

	playlist, err := p.resolver.playlistByID(ctx, id)
	if playlist == nil {
		res.fail(err)
		return
	}
	if err != nil {
		res.fail(err)
		if p.ownerRequired {
			return
		}
	}
	res.Playlist = playlist
}

// resolveYouTube handles video and YouTube Music links. For plain video links the linked video
// is the primary record, for YouTube Music links the linked song is.
func (p *Pipeline) resolveYouTube(ctx context.Context, res *Result, id string, isVideo bool) {
	explicitVideo := ""
	res.Primary = LegMusicLookup
	if isVideo {
		explicitVideo = id
		res.Primary = LegVideoSearch
	}

	var g errgroup.Group
	videoQuery := make(chan string, 1)

	g.Go(func() error {
		if explicitVideo != "" {
			p.videoLeg(ctx, res, "", explicitVideo)
			return nil
		}
		query, ok := <-videoQuery
		if !ok {
			res.skip(LegVideoSearch)
			return nil
		}
		p.videoLeg(ctx, res, query, "")
		return nil
	})

	g.Go(func() error {
		defer close(videoQuery)

		byID, err := p.resolver.MusicTrackByID(ctx, id)
		if err != nil {
			res.fail(asError(err))
			res.skip(LegMusicSearch, LegTrackMatch)
			return nil
		}

		query := TrackQuery(byID.Title, byID.Artists)
		videoQuery <- query

		key := byID
		if music, err := p.resolver.BestMusicTrack(ctx, query); err != nil {
			res.fail(asError(err))
		} else {
			key = music
		}
		res.MusicTrack = key

		p.trackMatchLeg(ctx, res, key)
		return nil
	})

	_ = g.Wait()
}

func (p *Pipeline) resolveQuery(ctx context.Context, res *Result, query string) {
	res.Primary = LegMusicSearch

	var g errgroup.Group
	g.Go(func() error {
		p.videoLeg(ctx, res, query, "")
		return nil
	})
	g.Go(func() error {
		music, err := p.resolver.BestMusicTrack(ctx, query)
		if err != nil {
			res.fail(asError(err))
			res.skip(LegTrackMatch)
			return nil
		}
		res.MusicTrack = music
		p.trackMatchLeg(ctx, res, music)
		return nil
	})
	_ = g.Wait()
}

func (p *Pipeline) videoLeg(ctx context.Context, res *Result, query, videoID string) {
	video, err := p.resolver.BestVideo(ctx, query, videoID)
	if err != nil {
		res.fail(asError(err))
		return
	}
	res.Video = video
}

func (p *Pipeline) trackMatchLeg(ctx context.Context, res *Result, key *MusicTrack) {
	track, err := p.resolver.TrackByNameAndArtist(ctx, key.Title, JoinArtists(key.Artists))
	if err != nil {
		res.fail(asError(err))
		return
	}
	res.Track = track
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindOf(err), Err: err}
}
