package musiclink

import (
	"errors"
	"testing"
)

func TestURLToID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "Spotify track with share parameter",
			url:      "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT?si=8a1b522f00744ee1",
			expected: "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name:     "Spotify playlist without parameters",
			url:      "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Ampersand without question mark",
			url:      "https://open.spotify.com/track/abc&foo=bar",
			expected: "abc",
		},
		{
			name:     "Trailing slash yields empty",
			url:      "https://open.spotify.com/track/",
			expected: "",
		},
		{
			name:     "Bare id",
			url:      "4cOdK2wGLETKBW3PvgPWqT",
			expected: "4cOdK2wGLETKBW3PvgPWqT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := URLToID(tt.url)
			if result != tt.expected {
				t.Errorf("URLToID() = %v, want %v", result, tt.expected)
			}
			if again := URLToID(result); again != result {
				t.Errorf("URLToID() not idempotent: %v then %v", result, again)
			}
		})
	}
}

func TestYouTubeURLToID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  error
	}{
		{
			name:     "Watch URL",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "Extra parameters before v",
			url:      "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "YouTube Music URL",
			url:      "https://music.youtube.com/watch?v=dQw4w9WgXcQ&feature=share",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:    "Missing v parameter",
			url:     "https://www.youtube.com/watch?list=PL123",
			wantErr: ErrMalformedURL,
		},
		{
			name:    "Empty v parameter",
			url:     "https://www.youtube.com/watch?v=",
			wantErr: ErrMalformedURL,
		},
		{
			name:    "Short link has no v parameter",
			url:     "https://youtu.be/dQw4w9WgXcQ",
			wantErr: ErrMalformedURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := YouTubeURLToID(tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("YouTubeURLToID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("YouTubeURLToID() unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("YouTubeURLToID() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.music.youtube.com/watch?v=x", "music.youtube.com"},
		{"https://MUSIC.YouTube.com/watch?v=x", "music.youtube.com"},
		{"https://open.spotify.com:443/track/x", "open.spotify.com"},
		{"not a url", ""},
		{"://bad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if result := Hostname(tt.url); result != tt.expected {
				t.Errorf("Hostname() = %q, want %q", result, tt.expected)
			}
		})
	}
}
