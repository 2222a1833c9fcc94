// Package main provides the Spoyt CLI application entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"spoyt/internal/core"
	httpserver "spoyt/internal/http"
	"spoyt/internal/i18n"
	"spoyt/internal/spotify"
	"spoyt/internal/youtube"
	"spoyt/internal/ytmusic"
)

const (
	defaultServerHost = "0.0.0.0"
	version           = "1.0.0"
)

var errResolutionFailed = errors.New("resolution failed")

var (
	cfgFile    string
	textOutput bool
	config     *core.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spoyt",
	Short: "Spoyt - Spotify ⇄ YouTube link resolver",
	Long: `Spoyt takes a Spotify, YouTube or YouTube Music link (or some search text) and finds
the same track on the other platforms.`,
	RunE: runRoot,
}

var resolveCmd = &cobra.Command{
	Use:          "resolve <link or search text...>",
	Short:        "Resolve one input and print the result",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runResolve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolver over HTTP",
	RunE:  runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("spotify-market", "", "Spotify market (ISO 3166-1 alpha-2 country code)")
	rootCmd.PersistentFlags().String("youtube-api-key", "", "YouTube Data API key")
	rootCmd.PersistentFlags().String("ytmusic-url", core.DefaultYTMusicURL, "YouTube Music API proxy URL")
	rootCmd.PersistentFlags().String("server-host", defaultServerHost, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().Int("rate-limit-per-minute", core.DefaultRateLimitPerMinute,
		"Maximum resolve requests per client per minute (0 disables the limit)")
	rootCmd.PersistentFlags().Int("request-timeout-secs", core.DefaultRequestTimeoutSecs,
		"Timeout for each provider request in seconds")
	rootCmd.PersistentFlags().Int("playlist-page-limit", core.DefaultPlaylistPageLimit,
		"Maximum number of playlist tracks to fetch")
	rootCmd.PersistentFlags().Bool("playlist-owner-required", false,
		"Fail a playlist when its owner can't be looked up")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("Message language (%s)", supportedLangs))
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	resolveCmd.Flags().BoolVar(&textOutput, "text", false, "Print a localized summary instead of JSON")

	rootCmd.AddCommand(resolveCmd, serveCmd)

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Load .env file explicitly using gotenv
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("SPOYT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")

	configureSpotify(cfg)
	configureYouTube(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	cfg.Spotify.Market = strings.ToUpper(viper.GetString("spotify-market"))
}

func configureYouTube(cfg *core.Config) {
	cfg.YouTube.APIKey = viper.GetString("youtube-api-key")
	if baseURL := viper.GetString("ytmusic-url"); baseURL != "" {
		cfg.YTMusic.BaseURL = baseURL
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.RateLimitPerMinute = viper.GetInt("rate-limit-per-minute")
	if cfg.Server.RateLimitPerMinute < 0 {
		cfg.Server.RateLimitPerMinute = 0
	}
}

func configureApp(cfg *core.Config) {
	cfg.App.RequestTimeoutSecs = viper.GetInt("request-timeout-secs")
	if cfg.App.RequestTimeoutSecs <= 0 {
		fmt.Printf("Warning: Invalid request timeout (%d), using default (%d)\n",
			cfg.App.RequestTimeoutSecs, core.DefaultRequestTimeoutSecs)
		cfg.App.RequestTimeoutSecs = core.DefaultRequestTimeoutSecs
	}

	cfg.App.PlaylistPageLimit = viper.GetInt("playlist-page-limit")
	if cfg.App.PlaylistPageLimit <= 0 {
		fmt.Printf("Warning: Invalid playlist page limit (%d), using default (%d)\n",
			cfg.App.PlaylistPageLimit, core.DefaultPlaylistPageLimit)
		cfg.App.PlaylistPageLimit = core.DefaultPlaylistPageLimit
	}

	cfg.App.PlaylistOwnerRequired = viper.GetBool("playlist-owner-required")

	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}
	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if strings.ToLower(format) == "text" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}
	return cmd.Help()
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resolver, err := buildResolver(ctx)
	if err != nil {
		return err
	}
	pipeline := newPipeline(resolver)

	res := pipeline.Resolve(ctx, strings.Join(args, " "))
	localizer := i18n.NewLocalizer(config.App.Language)

	if textOutput {
		writeText(cmd.OutOrStdout(), res, localizer)
	} else {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(httpserver.NewResolveResponse(res, localizer)); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	if !res.OK {
		return errResolutionFailed
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting Spoyt",
		zap.String("version", version),
		zap.String("ytmusic_url", config.YTMusic.BaseURL),
		zap.String("language", config.App.Language),
		zap.Int("request_timeout_secs", config.App.RequestTimeoutSecs))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	localizer := i18n.NewLocalizer(config.App.Language)
	httpServer := httpserver.NewServer(&config.Server, localizer, logger.Named("http"))

	resolver, err := buildResolver(ctx, core.WithMetrics(httpServer))
	if err != nil {
		return err
	}
	httpServer.SetResolver(newPipeline(resolver))

	return runServices(ctx, httpServer)
}

// buildResolver wires the provider clients into a resolver.
func buildResolver(ctx context.Context, opts ...core.ResolverOption) (*core.Resolver, error) {
	spotifyClient := spotify.NewClient(ctx, &config.Spotify, config.App.PlaylistPageLimit, logger.Named("spotify"))

	youtubeClient, err := youtube.NewClient(ctx, &config.YouTube, logger.Named("youtube"))
	if err != nil {
		return nil, err
	}

	musicClient := ytmusic.NewClient(&config.YTMusic, nil, logger.Named("ytmusic"))

	opts = append(opts, core.WithRequestTimeout(config.App.RequestTimeout()))
	return core.NewResolver(spotifyClient, youtubeClient, musicClient, logger.Named("resolver"), opts...), nil
}

func newPipeline(resolver *core.Resolver) *core.Pipeline {
	return core.NewPipeline(resolver, logger.Named("pipeline"),
		core.WithOwnerRequired(config.App.PlaylistOwnerRequired))
}

func runServices(ctx context.Context, httpServer *httpserver.Server) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	logger.Info("Spoyt started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("Spoyt stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Spoyt stopped gracefully")
	return nil
}

func validateConfig() error {
	if config.Spotify.ClientID == "" {
		return fmt.Errorf("spotify client ID is required")
	}
	if config.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify client secret is required")
	}
	if config.YouTube.APIKey == "" {
		return fmt.Errorf("youtube API key is required")
	}
	if !strings.HasPrefix(config.YTMusic.BaseURL, "http://") && !strings.HasPrefix(config.YTMusic.BaseURL, "https://") {
		return fmt.Errorf("invalid YouTube Music API URL: %q", config.YTMusic.BaseURL)
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	return nil
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# Spoyt Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: SPOYT_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n")
	content.WriteString("# =============================================================================\n\n")

	generateSpotifySection(&content, cmd)
	generateYouTubeSection(&content, cmd)
	generateAppSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateLoggingSection(&content, cmd)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return "SPOYT_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func generateSpotifySection(content *strings.Builder, _ *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Spotify Configuration - Required\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Get these from https://developer.spotify.com/dashboard\n")
	content.WriteString("# CLI: --spotify-client-id, --spotify-client-secret, --spotify-market\n")

	fmt.Fprintf(content, "%s=your_spotify_client_id_here          # Spotify app client ID\n",
		flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "%s=your_spotify_client_secret_here  # Spotify app client secret\n",
		flagToEnvVar("spotify-client-secret"))
	fmt.Fprintf(content, "# %s=CH                               # Market for track relinking (default: none)\n",
		flagToEnvVar("spotify-market"))
	content.WriteString("\n")
}

func generateYouTubeSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# YouTube Configuration - Required\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# API key from https://console.cloud.google.com (YouTube Data API v3)\n")
	content.WriteString("# CLI: --youtube-api-key, --ytmusic-url\n")

	ytmusicDefault := getDefaultValueString(cmd, "ytmusic-url")

	fmt.Fprintf(content, "%s=your_youtube_api_key_here              # YouTube Data API key\n",
		flagToEnvVar("youtube-api-key"))
	fmt.Fprintf(content, "%s=%s             # ytmusicapi proxy (default: %s)\n",
		flagToEnvVar("ytmusic-url"), ytmusicDefault, ytmusicDefault)
	content.WriteString("\n")
}

func generateAppSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Application Settings\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --language, --request-timeout-secs, --playlist-page-limit, --playlist-owner-required\n")

	langDefault := getDefaultValueString(cmd, "language")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	timeoutDefault := getDefaultValueString(cmd, "request-timeout-secs")
	pageDefault := getDefaultValueString(cmd, "playlist-page-limit")
	ownerDefault := getDefaultValueString(cmd, "playlist-owner-required")

	fmt.Fprintf(content, "%s=%s                                    # Message language: %s (default: %s)\n",
		flagToEnvVar("language"), langDefault, supportedLangs, langDefault)
	fmt.Fprintf(content, "%s=%s                      # Timeout per provider request (default: %s)\n",
		flagToEnvVar("request-timeout-secs"), timeoutDefault, timeoutDefault)
	fmt.Fprintf(content, "%s=%s                       # Playlist tracks to fetch (default: %s)\n",
		flagToEnvVar("playlist-page-limit"), pageDefault, pageDefault)
	fmt.Fprintf(content, "%s=%s                # Fail playlists whose owner lookup fails (default: %s)\n",
		flagToEnvVar("playlist-owner-required"), ownerDefault, ownerDefault)
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# HTTP Server Configuration (spoyt serve)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --server-host, --server-port, --rate-limit-per-minute\n")

	hostDefault := getDefaultValueString(cmd, "server-host")
	portDefault := getDefaultValueString(cmd, "server-port")
	rateDefault := getDefaultValueString(cmd, "rate-limit-per-minute")

	fmt.Fprintf(content, "%s=%s                         # Server bind address (default: %s)\n",
		flagToEnvVar("server-host"), "127.0.0.1", hostDefault)
	fmt.Fprintf(content, "%s=%s                              # Server port (default: %s)\n",
		flagToEnvVar("server-port"), portDefault, portDefault)
	fmt.Fprintf(content, "%s=%s                     # Resolve requests per client per minute, 0=disabled (default: %s)\n",
		flagToEnvVar("rate-limit-per-minute"), rateDefault, rateDefault)
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Logging Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --log-level, --log-format\n")

	logDefault := getDefaultValueString(cmd, "log-level")
	formatDefault := getDefaultValueString(cmd, "log-format")

	fmt.Fprintf(content, "%s=%s                                # Log level: debug, info, warn, error (default: %s)\n",
		flagToEnvVar("log-level"), logDefault, logDefault)
	fmt.Fprintf(content, "%s=%s                               # Log format: json, text (default: %s)\n",
		flagToEnvVar("log-format"), formatDefault, formatDefault)
	content.WriteString("\n")
}
