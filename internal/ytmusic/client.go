// Package ytmusic talks to a ytmusicapi HTTP proxy for YouTube Music song search and lookup.
//
// The proxy exposes GET /api/search?q=&filter=songs (ytmusicapi search) and
// GET /api/songs/{videoId} (ytmusicapi get_song) and passes the library's JSON through.
package ytmusic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"spoyt/internal/core"
	"spoyt/pkg/musiclink"
)

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type artist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// searchResult is one entry of a songs-filtered search.
type searchResult struct {
	VideoID    string      `json:"videoId"`
	Title      string      `json:"title"`
	Artists    []artist    `json:"artists"`
	Thumbnails []thumbnail `json:"thumbnails"`
	VideoType  string      `json:"videoType"`
}

// songResponse is the subset of get_song the resolver reads.
type songResponse struct {
	VideoDetails *struct {
		VideoID        string `json:"videoId"`
		Title          string `json:"title"`
		Author         string `json:"author"`
		MusicVideoType string `json:"musicVideoType"`
		Thumbnail      struct {
			Thumbnails []thumbnail `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// statusError is a non-2xx proxy response.
type statusError struct {
	Status int
	Detail string
}

func (e *statusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("youtube music API error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("youtube music API error: status %d", e.Status)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a proxy client. An empty baseURL uses core.DefaultYTMusicURL.
// Calls go through a circuit breaker that opens after repeated proxy failures.
func NewClient(config *core.YTMusicConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = core.DefaultYTMusicURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	settings := gobreaker.Settings{
		Name:        "ytmusic-proxy",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// isBreakerSuccess counts client side statuses and caller cancellation as healthy proxy responses.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.Status < http.StatusInternalServerError
	}
	return false
}

// SearchSongs returns up to limit songs-filtered results with their music video type.
func (c *Client) SearchSongs(ctx context.Context, query string, limit int) ([]core.MusicCandidate, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs", url.QueryEscape(query))

	var results []searchResult
	found, err := c.doRequest(ctx, endpoint, &results)
	if err != nil {
		return nil, classify(query, err)
	}
	if !found {
		return nil, core.NewError(core.KindProviderUnreachable, musiclink.PlatformYouTubeMusic, query, core.ErrEmptyPayload)
	}

	candidates := make([]core.MusicCandidate, 0, min(limit, len(results)))
	for _, r := range results {
		if len(candidates) >= limit {
			break
		}
		if r.VideoID == "" {
			continue
		}
		candidates = append(candidates, convertSearchResult(r))
	}
	return candidates, nil
}

// Song looks up a video by id and returns its details and music video type.
func (c *Client) Song(ctx context.Context, id string) (*core.SongDetails, error) {
	var resp songResponse
	found, err := c.doRequest(ctx, "/api/songs/"+url.PathEscape(id), &resp)
	if err != nil {
		return nil, classify(id, err)
	}
	if !found || resp.VideoDetails == nil {
		if resp.PlayabilityStatus != nil && resp.PlayabilityStatus.Status == "ERROR" {
			return nil, core.NewError(core.KindNotFound, musiclink.PlatformYouTubeMusic, id,
				errors.New(resp.PlayabilityStatus.Reason))
		}
		return nil, core.NewError(core.KindProviderUnreachable, musiclink.PlatformYouTubeMusic, id, core.ErrEmptyPayload)
	}

	details := resp.VideoDetails
	song := &core.SongDetails{
		ID:        details.VideoID,
		Title:     details.Title,
		Author:    details.Author,
		VideoType: core.MusicVideoType(details.MusicVideoType),
	}
	if song.ID == "" {
		song.ID = id
	}
	if thumbs := details.Thumbnail.Thumbnails; len(thumbs) > 0 {
		song.ThumbnailURL = thumbs[0].URL
	}
	return song, nil
}

// doRequest decodes the JSON body into result. It reports false for a null or empty body.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) (bool, error) {
	found, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, endpoint, result)
	})
	if err != nil {
		return false, err
	}
	return found.(bool), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, result any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &errResp)
		return false, &statusError{Status: resp.StatusCode, Detail: errResp.Detail}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		c.logger.Debug("Empty response from YouTube Music proxy", zap.String("endpoint", endpoint))
		return false, nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}

func classify(id string, err error) *core.Error {
	kind := core.KindProviderUnreachable

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusNotFound, http.StatusBadRequest:
			kind = core.KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = core.KindForbidden
		}
	}
	return core.NewError(kind, musiclink.PlatformYouTubeMusic, id, err)
}

func convertSearchResult(r searchResult) core.MusicCandidate {
	artists := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		artists = append(artists, a.Name)
	}

	var thumb string
	if len(r.Thumbnails) > 0 {
		thumb = r.Thumbnails[0].URL
	}

	return core.MusicCandidate{
		ID:           r.VideoID,
		Title:        r.Title,
		Artists:      artists,
		ThumbnailURL: thumb,
		VideoType:    core.MusicVideoType(r.VideoType),
	}
}
