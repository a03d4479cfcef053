// Package main provides the youtubetitle CLI application entry point.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"youtubetitle/internal/core"
	httpserver "youtubetitle/internal/http"
	"youtubetitle/internal/library"
	"youtubetitle/internal/scan"
	"youtubetitle/internal/store"
	"youtubetitle/internal/tags"
	"youtubetitle/pkg/junk"
)

const (
	defaultServerHost      = "0.0.0.0"
	bloomFalsePositiveRate = 0.001
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "youtubetitle",
	Short: "youtubetitle - clean up metadata of music downloaded from video sites",
	Long: `youtubetitle fills in missing track titles from file names, stripping junk such as
"(Official Audio)" or "[HD]", and infers album and artist from an Artist/Album/Track layout.`,
	SilenceUsage: true,
}

var cleanCmd = &cobra.Command{
	Use:   "clean PATH...",
	Short: "Infer metadata for the given paths without touching the disk",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClean,
}

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Walk a music directory and infer metadata for every track",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cleaner over HTTP with Prometheus metrics",
	Args:  cobra.NoArgs,
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
	rootCmd.PersistentFlags().Bool("parent-is-album", true, "Use the track's directory as the album name")
	rootCmd.PersistentFlags().Bool("parent-parent-is-artist", true, "Use the album directory's parent as the artist name")
	rootCmd.PersistentFlags().Int("pattern-cache-size", junk.DefaultCacheSize, "Album and artist patterns kept in memory")
	rootCmd.PersistentFlags().String("server-host", defaultServerHost, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", core.DefaultServerPort, "HTTP server port")
	rootCmd.PersistentFlags().Int("rate-limit-per-minute", core.DefaultRequestsPerMinute,
		"Clean requests allowed per client per minute (0 disables limiting)")
	rootCmd.PersistentFlags().String("library-path", "", "sqlite database to store processed items in (disabled when empty)")
	rootCmd.PersistentFlags().Int("scan-workers", core.DefaultScanWorkers, "Import tasks processed concurrently")
	rootCmd.PersistentFlags().Bool("read-tags", false, "Keep metadata already embedded in files and only infer what is missing")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(cleanCmd, scanCmd, serveCmd)
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("YOUTUBETITLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Inference.ParentIsAlbum = viper.GetBool("parent-is-album")
	cfg.Inference.ParentParentIsArtist = viper.GetBool("parent-parent-is-artist")

	cfg.Cache.PatternCacheSize = viper.GetInt("pattern-cache-size")
	if cfg.Cache.PatternCacheSize <= 0 {
		cfg.Cache.PatternCacheSize = junk.DefaultCacheSize
	}

	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.RequestsPerMinute = viper.GetInt("rate-limit-per-minute")

	cfg.Log.Level = viper.GetString("log-level")

	cfg.Library.Path = viper.GetString("library-path")

	cfg.Scan.Workers = viper.GetInt("scan-workers")
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = core.DefaultScanWorkers
	}
	cfg.Scan.ReadTags = viper.GetBool("read-tags")

	return cfg
}

func buildLogger(level string) *zap.Logger {
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

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func newTitleFixer(recorder core.Recorder) *core.TitleFixer {
	return core.NewTitleFixer(
		&config.Inference,
		junk.NewPatternCache(config.Cache.PatternCacheSize),
		recorder,
		logger.Named("fixer"),
	)
}

func runClean(cmd *cobra.Command, args []string) error {

	fixer := newTitleFixer(nil)

	results := make([]scan.Result, 0, len(args))
	for _, path := range args {
		item := &core.Item{Path: path}
		changes := fixer.ApplyItem(item)
		results = append(results, scan.Result{Item: item, Changes: changes})
	}

	return writeResults(cmd.OutOrStdout(), results)
}

func runScan(cmd *cobra.Command, args []string) error {

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := args[0]
	tasks, err := scan.Discover(root, config.Scan.Extensions)
	if err != nil {
		return err
	}

	logger.Info("Discovered import tasks",
		zap.String("root", root),
		zap.Int("tasks", len(tasks)))

	seen := store.NewPathSet(config.Scan.SeenPaths, bloomFalsePositiveRate)

	var itemStore scan.ItemStore
	if config.Library.Path != "" {
		lib, err := library.Open(ctx, config.Library.Path)
		if err != nil {
			return err
		}
		defer lib.Close()

		// Tracks already in the library keep their stored metadata.
		paths, err := lib.Paths(ctx)
		if err != nil {
			return err
		}
		seen.Load(paths)
		itemStore = lib
	}

	var readTag scan.TagReader
	if config.Scan.ReadTags {
		readTag = tags.Read
	}

	runner := scan.NewRunner(newTitleFixer(nil), seen, itemStore, readTag, config.Scan.Workers, logger.Named("scan"))
	results, err := runner.Run(ctx, tasks)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return writeResults(cmd.OutOrStdout(), results)
}

func runServe(cmd *cobra.Command, _ []string) error {

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting youtubetitle",
		zap.Bool("parent_is_album", config.Inference.ParentIsAlbum),
		zap.Bool("parent_parent_is_artist", config.Inference.ParentParentIsArtist),
		zap.Int("pattern_cache_size", config.Cache.PatternCacheSize))

	registry := prometheus.NewRegistry()
	metrics := httpserver.NewMetrics(registry)
	httpServer := httpserver.NewServer(&config.Server, newTitleFixer(metrics), metrics, registry, logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("youtubetitle stopped with error", zap.Error(err))
		return err
	}

	logger.Info("youtubetitle stopped gracefully")
	return nil
}

// writeResults prints one JSON object per line.
func writeResults(w io.Writer, results []scan.Result) error {
	encoder := json.NewEncoder(w)
	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return nil
}
