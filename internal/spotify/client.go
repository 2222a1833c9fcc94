// Package spotify provides the Spotify Web API catalog used to look up and match tracks.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"spoyt/internal/core"
	"spoyt/pkg/musiclink"
)

type Client struct {
	client    *spotify.Client
	logger    *zap.Logger
	market    string
	pageLimit int
}

// NewClient creates a catalog client authenticated with the client credentials flow.
func NewClient(ctx context.Context, config *core.SpotifyConfig, pageLimit int, logger *zap.Logger) *Client {
	creds := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return New(spotify.New(creds.Client(ctx)), config.Market, pageLimit, logger)
}

// New wraps an existing API client.
func New(client *spotify.Client, market string, pageLimit int, logger *zap.Logger) *Client {
	if pageLimit <= 0 {
		pageLimit = core.DefaultPlaylistPageLimit
	}
	return &Client{
		client:    client,
		logger:    logger,
		market:    market,
		pageLimit: pageLimit,
	}
}

func (c *Client) requestOptions(opts ...spotify.RequestOption) []spotify.RequestOption {
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}
	return opts
}

func (c *Client) Track(ctx context.Context, id string) (*core.Track, error) {
	track, err := c.client.GetTrack(ctx, spotify.ID(id), c.requestOptions()...)
	if err != nil {
		return nil, classify(id, fmt.Errorf("failed to get track: %w", err))
	}
	if track == nil || track.ID == "" || len(track.Artists) == 0 {
		return nil, core.NewError(core.KindProviderUnreachable, musiclink.PlatformSpotify, id, core.ErrEmptyPayload)
	}

	coreTrack := convertTrack(track)
	return &coreTrack, nil
}

func (c *Client) Playlist(ctx context.Context, id string) (*core.Playlist, error) {
	playlist, err := c.client.GetPlaylist(ctx, spotify.ID(id), c.requestOptions()...)
	if err != nil {
		return nil, classify(id, fmt.Errorf("failed to get playlist: %w", err))
	}
	if playlist == nil || playlist.ID == "" {
		return nil, core.NewError(core.KindProviderUnreachable, musiclink.PlatformSpotify, id, core.ErrEmptyPayload)
	}

	corePlaylist := convertPlaylist(playlist, c.pageLimit)
	c.logger.Debug("Fetched playlist",
		zap.String("playlistID", id),
		zap.Int("tracks", len(corePlaylist.Tracks)),
		zap.Int("total", corePlaylist.TotalTracks))
	return &corePlaylist, nil
}

func (c *Client) User(ctx context.Context, id string) (*core.User, error) {
	user, err := c.client.GetUsersPublicProfile(ctx, spotify.ID(id))
	if err != nil {
		return nil, classify(id, fmt.Errorf("failed to get user: %w", err))
	}
	if user == nil || user.ID == "" {
		return nil, core.NewError(core.KindProviderUnreachable, musiclink.PlatformSpotify, id, core.ErrEmptyPayload)
	}

	coreUser := convertUser(user)
	return &coreUser, nil
}

// SearchTracks returns the open.spotify.com URLs of the best matching tracks.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]string, error) {
	results, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, c.requestOptions(spotify.Limit(limit))...)
	if err != nil {
		return nil, classify(query, fmt.Errorf("search failed: %w", err))
	}
	if results == nil || results.Tracks == nil {
		return nil, nil
	}

	urls := make([]string, 0, len(results.Tracks.Tracks))
	for i := range results.Tracks.Tracks {
		if len(urls) >= limit {
			break
		}
		urls = append(urls, trackURL(&results.Tracks.Tracks[i]))
	}
	return urls, nil
}

// classify maps a Web API failure to the resolver's error kinds.
func classify(id string, err error) *core.Error {
	kind := core.KindProviderUnreachable
	if status, ok := apiStatus(err); ok {
		switch status {
		case http.StatusNotFound, http.StatusBadRequest:
			kind = core.KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = core.KindForbidden
		}
	}
	return core.NewError(kind, musiclink.PlatformSpotify, id, err)
}

func apiStatus(err error) (int, bool) {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status, true
	}
	return 0, false
}
