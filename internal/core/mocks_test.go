package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"spoyt/pkg/musiclink"
)

type mockSpotify struct {
	mu sync.Mutex

	tracks    map[string]*Track
	playlists map[string]*Playlist
	users     map[string]*User
	userErr   error
	// results maps a search query to the returned track URLs.
	results   map[string][]string
	searchErr error
	trackErr  error

	queries []string
}

func (m *mockSpotify) Track(_ context.Context, id string) (*Track, error) {
	if m.trackErr != nil {
		return nil, m.trackErr
	}
	if t, ok := m.tracks[id]; ok {
		return t, nil
	}
	return nil, NewError(KindNotFound, musiclink.PlatformSpotify, id, errors.New("404"))
}

func (m *mockSpotify) Playlist(_ context.Context, id string) (*Playlist, error) {
	if p, ok := m.playlists[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, NewError(KindNotFound, musiclink.PlatformSpotify, id, errors.New("404"))
}

func (m *mockSpotify) User(_ context.Context, id string) (*User, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, NewError(KindNotFound, musiclink.PlatformSpotify, id, errors.New("404"))
}

func (m *mockSpotify) SearchTracks(_ context.Context, query string, _ int) ([]string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results[query], nil
}

type mockVideos struct {
	mu sync.Mutex

	results   []Video
	searchErr error
	videos    map[string]*Video

	searchCalls int
}

func (m *mockVideos) SearchVideos(_ context.Context, _ string, limit int) ([]Video, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()

	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.results) > limit {
		return m.results[:limit], nil
	}
	return m.results, nil
}

func (m *mockVideos) Video(_ context.Context, id string) (*Video, error) {
	if v, ok := m.videos[id]; ok {
		return v, nil
	}
	return nil, NewError(KindNotFound, musiclink.PlatformYouTube, id, errors.New("no items"))
}

type mockMusic struct {
	songs     map[string]*SongDetails
	songErr   map[string]error
	results   []MusicCandidate
	searchErr error
	// delay per song id, to shuffle classification completion order.
	delay map[string]time.Duration
}

func (m *mockMusic) SearchSongs(_ context.Context, _ string, _ int) ([]MusicCandidate, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockMusic) Song(ctx context.Context, id string) (*SongDetails, error) {
	if d := m.delay[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, NewError(KindProviderUnreachable, musiclink.PlatformYouTubeMusic, id, ctx.Err())
		}
	}
	if err := m.songErr[id]; err != nil {
		return nil, err
	}
	if s, ok := m.songs[id]; ok {
		return s, nil
	}
	return nil, NewError(KindNotFound, musiclink.PlatformYouTubeMusic, id, errors.New("404"))
}

type mockMetrics struct {
	mu                     sync.Mutex
	selections             []string
	legErrors              []string
	classificationFailures int
	resolutions            int
}

func (m *mockMetrics) RecordResolution(string, bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions++
}

func (m *mockMetrics) RecordLegError(_ string, leg string, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.legErrors = append(m.legErrors, leg+":"+kind)
}

func (m *mockMetrics) RecordSelection(rule string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections = append(m.selections, rule)
}

func (m *mockMetrics) RecordClassificationFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classificationFailures++
}

// videosWithTypes builds ranked search results and their YouTube Music classifications.
func videosWithTypes(titles []string, types []MusicVideoType) ([]Video, *mockMusic) {
	music := &mockMusic{songs: map[string]*SongDetails{}}
	videos := make([]Video, len(titles))
	for i, title := range titles {
		id := "v" + string(rune('1'+i))
		videos[i] = Video{ID: id, Title: title}
		if types[i] != "" {
			music.songs[id] = &SongDetails{ID: id, Title: title, VideoType: types[i]}
		}
	}
	return videos, music
}
