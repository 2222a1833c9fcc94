package core

import (
	"time"

	"spoyt/internal/i18n"
)

const (
	// DefaultRequestTimeoutSecs is the per provider call timeout.
	DefaultRequestTimeoutSecs = 10
	// DefaultPlaylistPageLimit is how many playlist tracks are fetched.
	DefaultPlaylistPageLimit = 10
	// DefaultYTMusicURL is the ytmusicapi proxy address.
	DefaultYTMusicURL = "http://localhost:8000"
	// DefaultRateLimitPerMinute caps resolve requests per client; 0 disables the limit.
	DefaultRateLimitPerMinute = 30
)

type Config struct {
	Spotify SpotifyConfig
	YouTube YouTubeConfig
	YTMusic YTMusicConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
}

type YouTubeConfig struct {
	APIKey string
}

type YTMusicConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RateLimitPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	RequestTimeoutSecs    int
	PlaylistPageLimit     int
	PlaylistOwnerRequired bool
	Language              string
}

// RequestTimeout returns the per call timeout as a duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutSecs) * time.Second
}

func DefaultConfig() *Config {
	return &Config{
		YTMusic: YTMusicConfig{
			BaseURL: DefaultYTMusicURL,
		},
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       60 * time.Second,
			RateLimitPerMinute: DefaultRateLimitPerMinute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			RequestTimeoutSecs: DefaultRequestTimeoutSecs,
			PlaylistPageLimit:  DefaultPlaylistPageLimit,
			Language:           i18n.DefaultLanguage,
		},
	}
}
