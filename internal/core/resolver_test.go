package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"spoyt/pkg/musiclink"
)

func newTestResolver(spotify *mockSpotify, videos *mockVideos, music *mockMusic, metrics *mockMetrics) *Resolver {
	if spotify == nil {
		spotify = &mockSpotify{}
	}
	if videos == nil {
		videos = &mockVideos{}
	}
	if music == nil {
		music = &mockMusic{}
	}
	opts := []ResolverOption{WithRequestTimeout(time.Second)}
	if metrics != nil {
		opts = append(opts, WithMetrics(metrics))
	}
	return NewResolver(spotify, videos, music, zap.NewNop(), opts...)
}

func TestResolver_BestVideo_Selection(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		types    []MusicVideoType
		expected string
		rule     string
	}{
		{
			name:     "Official Video title beats rank and OMV tag",
			titles:   []string{"Song (Lyrics)", "Song Live", "Song (Official Video)", "Song cover", "Song remix"},
			types:    []MusicVideoType{VideoTypeOMV, "MUSIC_VIDEO_TYPE_UGC", "MUSIC_VIDEO_TYPE_UGC", "", ""},
			expected: "v3",
			rule:     RuleOfficialVideoTitle,
		},
		{
			name:     "Only OMV candidate wins",
			titles:   []string{"Song (Lyrics)", "Song Live", "Song Audio", "Song clip", "Song remix"},
			types:    []MusicVideoType{VideoTypeATV, "MUSIC_VIDEO_TYPE_UGC", "", VideoTypeOMV, ""},
			expected: "v4",
			rule:     RuleOMV,
		},
		{
			name:     "Top rank fallback",
			titles:   []string{"Song (Lyrics)", "Song Live", "Song Audio", "Song clip", "Song remix"},
			types:    []MusicVideoType{VideoTypeATV, "", "", "MUSIC_VIDEO_TYPE_UGC", ""},
			expected: "v1",
			rule:     RuleTopRank,
		},
		{
			name:     "First OMV by rank when several",
			titles:   []string{"a", "b", "c", "d", "e"},
			types:    []MusicVideoType{"", VideoTypeOMV, "", VideoTypeOMV, ""},
			expected: "v2",
			rule:     RuleOMV,
		},
		{
			name:     "Marker is case sensitive",
			titles:   []string{"a", "Song (official video)", "c"},
			types:    []MusicVideoType{"", "", ""},
			expected: "v1",
			rule:     RuleTopRank,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, music := videosWithTypes(tt.titles, tt.types)
			metrics := &mockMetrics{}
			r := newTestResolver(nil, &mockVideos{results: results}, music, metrics)

			video, err := r.BestVideo(context.Background(), "song", "")
			if err != nil {
				t.Fatalf("BestVideo() unexpected error: %v", err)
			}
			if video.ID != tt.expected {
				t.Errorf("BestVideo() = %v, want %v", video.ID, tt.expected)
			}
			if len(metrics.selections) != 1 || metrics.selections[0] != tt.rule {
				t.Errorf("selection rules = %v, want [%v]", metrics.selections, tt.rule)
			}
		})
	}
}

func TestResolver_BestVideo_OrderIndependentOfCompletion(t *testing.T) {
	results, music := videosWithTypes(
		[]string{"a", "b", "c", "d", "e"},
		[]MusicVideoType{"", VideoTypeOMV, "", VideoTypeOMV, ""},
	)
	// The lower ranked OMV answers first.
	music.delay = map[string]time.Duration{"v2": 50 * time.Millisecond}

	r := newTestResolver(nil, &mockVideos{results: results}, music, nil)
	video, err := r.BestVideo(context.Background(), "song", "")
	if err != nil {
		t.Fatalf("BestVideo() unexpected error: %v", err)
	}
	if video.ID != "v2" {
		t.Errorf("BestVideo() = %v, want v2", video.ID)
	}
}

func TestResolver_BestVideo_ExplicitIDSkipsSearch(t *testing.T) {
	videos := &mockVideos{
		results: []Video{{ID: "v1", Title: "Song (Official Video)"}},
		videos:  map[string]*Video{"linked": {ID: "linked", Title: "some fan upload"}},
	}
	r := newTestResolver(nil, videos, &mockMusic{}, nil)

	video, err := r.BestVideo(context.Background(), "song", "linked")
	if err != nil {
		t.Fatalf("BestVideo() unexpected error: %v", err)
	}
	if video.ID != "linked" {
		t.Errorf("BestVideo() = %v, want linked", video.ID)
	}
	if videos.searchCalls != 0 {
		t.Errorf("search called %d times, want 0", videos.searchCalls)
	}
}

func TestResolver_BestVideo_Errors(t *testing.T) {
	tests := []struct {
		name     string
		videos   *mockVideos
		expected Kind
	}{
		{
			name:     "Empty search result",
			videos:   &mockVideos{},
			expected: KindNotFound,
		},
		{
			name: "Quota exhausted",
			videos: &mockVideos{searchErr: NewError(KindForbidden, musiclink.PlatformYouTube, "",
				errors.New("quotaExceeded"))},
			expected: KindForbidden,
		},
		{
			name: "Transport failure",
			videos: &mockVideos{searchErr: NewError(KindProviderUnreachable, musiclink.PlatformYouTube, "",
				errors.New("connection refused"))},
			expected: KindProviderUnreachable,
		},
		{
			name:     "Unclassified error",
			videos:   &mockVideos{searchErr: errors.New("boom")},
			expected: KindProviderUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(nil, tt.videos, &mockMusic{}, nil)
			_, err := r.BestVideo(context.Background(), "song", "")
			if KindOf(err) != tt.expected {
				t.Fatalf("BestVideo() error = %v, want kind %v", err, tt.expected)
			}
			var e *Error
			if !errors.As(err, &e) || e.Leg != LegVideoSearch || e.Platform != musiclink.PlatformYouTube {
				t.Errorf("BestVideo() error context = %+v", e)
			}
		})
	}
}

func TestResolver_BestVideo_ClassificationFailureLeavesCandidateUntagged(t *testing.T) {
	results, music := videosWithTypes(
		[]string{"a", "b", "c"},
		[]MusicVideoType{"", VideoTypeOMV, ""},
	)
	music.songErr = map[string]error{"v2": NewError(KindProviderUnreachable, musiclink.PlatformYouTubeMusic, "v2", errors.New("503"))}
	metrics := &mockMetrics{}

	r := newTestResolver(nil, &mockVideos{results: results}, music, metrics)
	video, err := r.BestVideo(context.Background(), "song", "")
	if err != nil {
		t.Fatalf("BestVideo() unexpected error: %v", err)
	}
	if video.ID != "v1" {
		t.Errorf("BestVideo() = %v, want v1", video.ID)
	}
	// v1 and v3 have no song entry either, so all three lookups fail.
	if metrics.classificationFailures != 3 {
		t.Errorf("classification failures = %d, want 3", metrics.classificationFailures)
	}
}

func TestResolver_BestMusicTrack(t *testing.T) {
	tests := []struct {
		name       string
		candidates []MusicCandidate
		expected   string
		wantKind   Kind
	}{
		{
			name: "First ATV candidate",
			candidates: []MusicCandidate{
				{ID: "omv", VideoType: VideoTypeOMV},
				{ID: "atv1", Title: "Waterloo", Artists: []string{"ABBA"}, VideoType: VideoTypeATV},
				{ID: "atv2", VideoType: VideoTypeATV},
			},
			expected: "atv1",
		},
		{
			name: "ATV without artists is skipped",
			candidates: []MusicCandidate{
				{ID: "atv1", Title: "Waterloo", VideoType: VideoTypeATV},
				{ID: "atv2", Title: "Waterloo", Artists: []string{"ABBA"}, VideoType: VideoTypeATV},
			},
			expected: "atv2",
		},
		{
			name: "Only incomplete ATV candidates",
			candidates: []MusicCandidate{
				{ID: "atv1", Title: "Waterloo", VideoType: VideoTypeATV},
				{ID: "atv2", Artists: []string{"ABBA"}, VideoType: VideoTypeATV},
			},
			wantKind: KindNotFound,
		},
		{
			name: "ATV beyond the first five is ignored",
			candidates: []MusicCandidate{
				{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"},
				{ID: "6", VideoType: VideoTypeATV},
			},
			wantKind: KindNotFound,
		},
		{
			name:       "No candidates",
			candidates: nil,
			wantKind:   KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(nil, nil, &mockMusic{results: tt.candidates}, nil)
			track, err := r.BestMusicTrack(context.Background(), "waterloo abba")
			if tt.wantKind != "" {
				if KindOf(err) != tt.wantKind {
					t.Fatalf("BestMusicTrack() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("BestMusicTrack() unexpected error: %v", err)
			}
			if track.ID != tt.expected {
				t.Errorf("BestMusicTrack() = %v, want %v", track.ID, tt.expected)
			}
		})
	}
}

func TestResolver_TrackByNameAndArtist_FallbackToFirstArtist(t *testing.T) {
	spotify := &mockSpotify{
		tracks: map[string]*Track{
			"4cOdK2wGLETKBW3PvgPWqT": {ID: "4cOdK2wGLETKBW3PvgPWqT", Name: "Get Lucky", Artists: []string{"Daft Punk"}},
		},
		results: map[string][]string{
			"track:Get Lucky artist:Daft Punk": {"https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT"},
		},
	}
	r := newTestResolver(spotify, nil, nil, nil)

	track, err := r.TrackByNameAndArtist(context.Background(), "Get Lucky", "Daft Punk, Pharrell Williams")
	if err != nil {
		t.Fatalf("TrackByNameAndArtist() unexpected error: %v", err)
	}
	if track.ID != "4cOdK2wGLETKBW3PvgPWqT" {
		t.Errorf("TrackByNameAndArtist() = %v", track.ID)
	}

	want := []string{
		"track:Get Lucky artist:Daft Punk, Pharrell Williams",
		"track:Get Lucky artist:Daft Punk",
	}
	if len(spotify.queries) != len(want) {
		t.Fatalf("queries = %v, want %v", spotify.queries, want)
	}
	for i := range want {
		if spotify.queries[i] != want[i] {
			t.Errorf("query[%d] = %q, want %q", i, spotify.queries[i], want[i])
		}
	}
}

func TestResolver_TrackByNameAndArtist_NoRetryForSingleArtist(t *testing.T) {
	spotify := &mockSpotify{}
	r := newTestResolver(spotify, nil, nil, nil)

	_, err := r.TrackByNameAndArtist(context.Background(), "Waterloo", "ABBA")
	if KindOf(err) != KindNotFound {
		t.Fatalf("TrackByNameAndArtist() error = %v, want NotFound", err)
	}
	if len(spotify.queries) != 1 {
		t.Errorf("queries = %v, want one", spotify.queries)
	}
}

func TestResolver_TrackByNameAndArtist_ErrorMapping(t *testing.T) {
	hit := map[string][]string{"track:T artist:A": {"https://open.spotify.com/track/id1"}}

	tests := []struct {
		name     string
		spotify  *mockSpotify
		expected Kind
	}{
		{
			name: "Search transport error becomes NotFound",
			spotify: &mockSpotify{searchErr: NewError(KindProviderUnreachable, musiclink.PlatformSpotify, "",
				errors.New("502"))},
			expected: KindNotFound,
		},
		{
			name: "Forbidden stays Forbidden",
			spotify: &mockSpotify{searchErr: NewError(KindForbidden, musiclink.PlatformSpotify, "",
				errors.New("403"))},
			expected: KindForbidden,
		},
		{
			name: "Timeout stays unreachable",
			spotify: &mockSpotify{searchErr: NewError(KindProviderUnreachable, musiclink.PlatformSpotify, "",
				context.DeadlineExceeded)},
			expected: KindProviderUnreachable,
		},
		{
			name:     "Second fetch not found",
			spotify:  &mockSpotify{results: hit},
			expected: KindNotFound,
		},
		{
			name: "Second fetch empty payload",
			spotify: &mockSpotify{results: hit, trackErr: NewError(KindProviderUnreachable, musiclink.PlatformSpotify,
				"id1", ErrEmptyPayload)},
			expected: KindProviderUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.spotify, nil, nil, nil)
			_, err := r.TrackByNameAndArtist(context.Background(), "T", "A")
			if KindOf(err) != tt.expected {
				t.Errorf("TrackByNameAndArtist() error = %v, want kind %v", err, tt.expected)
			}
			var e *Error
			if errors.As(err, &e) && e.Leg != LegTrackMatch {
				t.Errorf("error leg = %v, want %v", e.Leg, LegTrackMatch)
			}
		})
	}
}

func TestResolver_PlaylistByID_OwnerFailureAborts(t *testing.T) {
	spotify := &mockSpotify{
		playlists: map[string]*Playlist{"pl": {ID: "pl", Name: "Mix", OwnerID: "owner", PageLimit: 10}},
		userErr:   NewError(KindProviderUnreachable, musiclink.PlatformSpotify, "owner", errors.New("503")),
	}
	r := newTestResolver(spotify, nil, nil, nil)

	if _, err := r.PlaylistByID(context.Background(), "pl"); KindOf(err) != KindProviderUnreachable {
		t.Errorf("PlaylistByID() error = %v, want ProviderUnreachable", err)
	}

	spotify.userErr = nil
	spotify.users = map[string]*User{"owner": {ID: "owner", DisplayName: "DJ"}}
	playlist, err := r.PlaylistByID(context.Background(), "pl")
	if err != nil {
		t.Fatalf("PlaylistByID() unexpected error: %v", err)
	}
	if playlist.Owner == nil || playlist.Owner.DisplayName != "DJ" {
		t.Errorf("PlaylistByID() owner = %+v", playlist.Owner)
	}
}

func TestResolver_MusicTrackByID(t *testing.T) {
	music := &mockMusic{songs: map[string]*SongDetails{
		"abc": {ID: "abc", Title: "Get Lucky", Author: "Daft Punk & Pharrell Williams", VideoType: VideoTypeATV},
	}}
	r := newTestResolver(nil, nil, music, nil)

	track, err := r.MusicTrackByID(context.Background(), "abc")
	if err != nil {
		t.Fatalf("MusicTrackByID() unexpected error: %v", err)
	}
	if len(track.Artists) != 2 || track.Artists[1] != "Pharrell Williams" {
		t.Errorf("MusicTrackByID() artists = %v", track.Artists)
	}

	_, err = r.MusicTrackByID(context.Background(), "missing")
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindNotFound || e.Leg != LegMusicLookup {
		t.Errorf("MusicTrackByID() error = %v", err)
	}
}

func TestResolver_MusicTrackByID_IncompleteSong(t *testing.T) {
	tests := []struct {
		name string
		song SongDetails
	}{
		{"empty author", SongDetails{ID: "abc", Title: "Song", VideoType: VideoTypeATV}},
		{"blank author", SongDetails{ID: "abc", Title: "Song", Author: " & ", VideoType: VideoTypeATV}},
		{"empty title", SongDetails{ID: "abc", Author: "A", VideoType: VideoTypeATV}},
		{"empty id", SongDetails{Title: "Song", Author: "A", VideoType: VideoTypeATV}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := tt.song
			r := newTestResolver(nil, nil, &mockMusic{songs: map[string]*SongDetails{"abc": &song}}, nil)

			track, err := r.MusicTrackByID(context.Background(), "abc")
			if track != nil {
				t.Errorf("MusicTrackByID() track = %+v, want nil", track)
			}
			var e *Error
			if !errors.As(err, &e) || e.Kind != KindProviderUnreachable || e.Leg != LegMusicLookup {
				t.Fatalf("MusicTrackByID() error = %v", err)
			}
			if !errors.Is(err, ErrEmptyPayload) {
				t.Errorf("MusicTrackByID() error = %v, want ErrEmptyPayload", err)
			}
		})
	}
}

func TestResolver_TimeoutIsUnreachable(t *testing.T) {
	results, music := videosWithTypes([]string{"a"}, []MusicVideoType{VideoTypeOMV})
	music.delay = map[string]time.Duration{"v1": time.Second}

	r := NewResolver(&mockSpotify{}, &mockVideos{results: results}, music, zap.NewNop(),
		WithRequestTimeout(10*time.Millisecond))

	_, err := r.MusicTrackByID(context.Background(), "v1")
	if KindOf(err) != KindProviderUnreachable || !IsTimeout(err) {
		t.Errorf("MusicTrackByID() error = %v, want timeout", err)
	}
}
