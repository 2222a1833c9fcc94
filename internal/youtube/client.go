// Package youtube provides video search and lookup through the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"spoyt/internal/core"
	"spoyt/pkg/musiclink"
)

var snippetPart = []string{"snippet"}

type Client struct {
	service *youtube.Service
	logger  *zap.Logger
}

// NewClient creates a Data API client authenticated with an API key.
// Extra options are appended, so tests can point the client at another endpoint.
func NewClient(ctx context.Context, config *core.YouTubeConfig, logger *zap.Logger,
	opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service, logger: logger}, nil
}

// SearchVideos returns up to limit videos for query in YouTube's rank order.
func (c *Client) SearchVideos(ctx context.Context, query string, limit int) ([]core.Video, error) {
	resp, err := c.service.Search.List(snippetPart).
		Q(query).
		Type("video").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(query, fmt.Errorf("video search failed: %w", err))
	}

	videos := make([]core.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		var title, description, published string
		if item.Snippet != nil {
			title = html.UnescapeString(item.Snippet.Title)
			description = html.UnescapeString(item.Snippet.Description)
			published = item.Snippet.PublishedAt
		}
		videos = append(videos, core.NewVideo(item.Id.VideoId, title, description, published))
	}

	c.logger.Debug("Video search finished", zap.String("query", query), zap.Int("results", len(videos)))
	return videos, nil
}

// Video looks up a single video. An empty item list means the id does not exist.
func (c *Client) Video(ctx context.Context, id string) (*core.Video, error) {
	resp, err := c.service.Videos.List(snippetPart).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, classify(id, fmt.Errorf("video lookup failed: %w", err))
	}
	if len(resp.Items) == 0 {
		return nil, core.NewError(core.KindNotFound, musiclink.PlatformYouTube, id, errors.New("no video with this id"))
	}

	item := resp.Items[0]
	if item.Snippet == nil {
		return nil, core.NewError(core.KindProviderUnreachable, musiclink.PlatformYouTube, id, core.ErrEmptyPayload)
	}

	video := core.NewVideo(item.Id, item.Snippet.Title, item.Snippet.Description, item.Snippet.PublishedAt)
	return &video, nil
}

func classify(id string, err error) *core.Error {
	kind := core.KindProviderUnreachable

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusBadRequest:
			kind = core.KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = core.KindForbidden
		}
	}
	return core.NewError(kind, musiclink.PlatformYouTube, id, err)
}
