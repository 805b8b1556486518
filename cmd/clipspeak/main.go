// clipspeak reads copied Japanese text aloud.
//
// Usage:
//
//	clipspeak [--english] [--cache] [--verbose|--quiet]
//	clipspeak say TEXT...
//	clipspeak config
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/clipspeak/internal/clipboard"
	"github.com/hammamikhairi/clipspeak/internal/config"
	"github.com/hammamikhairi/clipspeak/internal/display"
	"github.com/hammamikhairi/clipspeak/internal/engine"
	"github.com/hammamikhairi/clipspeak/internal/logger"
	"github.com/hammamikhairi/clipspeak/internal/speech"
)

var (
	// Version is set at build time.
	Version = ""

	configFile string
	verbose    bool
	quiet      bool

	rootCmd = &cobra.Command{
		Use:   "clipspeak",
		Short: "Read copied Japanese text aloud",
		Long: "clipspeak watches the clipboard. When the copied text contains Japanese\n" +
			"(or any text with --english) it is spoken with Azure text-to-speech.",
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return readConfig()
		},
		RunE: runWatch,
	}
)

// app holds everything wired at startup.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	console *display.Console
	engine  *engine.Engine
	player  *speech.Player
	cache   *speech.AudioCache
	close   func()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is clipspeak.yml in the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "disable all logging")
	rootCmd.PersistentFlags().Bool("english", false, "speak any copied text with an English voice")
	rootCmd.PersistentFlags().String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	rootCmd.PersistentFlags().String("region", "", "Azure region (overrides "+speech.EnvAzureSpeechRegion+")")
	rootCmd.PersistentFlags().Bool("cache", false, "reuse audio for text that was already spoken")
	rootCmd.PersistentFlags().String("cache-dir", "", "directory for the persistent audio cache")
	rootCmd.PersistentFlags().Bool("disk-cache", true, "persist cached audio to disk (reads from disk even when false)")
	rootCmd.PersistentFlags().String("format", "", "Azure MP3 output format")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP timeout for Azure requests")
	rootCmd.PersistentFlags().Int("rpm", 0, "maximum synthesis requests per minute (0 = unlimited)")

	rootCmd.Flags().Duration("poll-interval", 0, "how often to read the clipboard")

	v := viper.GetViper()
	config.SetDefaults(v)
	bindFlag(v, config.KeyEnglish, rootCmd.PersistentFlags().Lookup("english"))
	bindFlag(v, config.KeyPollInterval, rootCmd.Flags().Lookup("poll-interval"))
	bindFlag(v, config.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
	bindFlag(v, config.KeyRegion, rootCmd.PersistentFlags().Lookup("region"))
	bindFlag(v, config.KeyCacheEnabled, rootCmd.PersistentFlags().Lookup("cache"))
	bindFlag(v, config.KeyCacheDir, rootCmd.PersistentFlags().Lookup("cache-dir"))
	bindFlag(v, config.KeyCacheDisk, rootCmd.PersistentFlags().Lookup("disk-cache"))
	bindFlag(v, config.KeyTTSFormat, rootCmd.PersistentFlags().Lookup("format"))
	bindFlag(v, config.KeyTTSTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	bindFlag(v, config.KeyRequestsPerMinute, rootCmd.PersistentFlags().Lookup("rpm"))

	rootCmd.AddCommand(sayCmd, configCmd)
}

// bindFlag binds a flag to a config key. Viper only uses a bound flag's
// value when it was set, so file values and defaults still apply.
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// readConfig locates the config file and loads it into viper.
func readConfig() error {
	used, err := config.ReadFile(viper.GetViper(), configFile)
	if err != nil {
		return err
	}
	configFile = used
	return nil
}

// setup builds the pipeline. Any error here is fatal.
func setup() (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = logger.LevelVerbose
	}
	if quiet {
		cfg.LogLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the console stays clean.
	var logOut io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			closeLog = func() { _ = f.Close() }
		}
	}

	// Third-party libraries that use the standard log package go to the
	// same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(cfg.LogLevel, logOut)

	envCfg, err := config.ParseEnv(nil)
	if err != nil {
		closeLog()
		return nil, err
	}
	region := cfg.ResolveRegion(envCfg)

	client := speech.NewAzureClient(envCfg.SpeechKey, region, log,
		speech.WithAudioFormat(cfg.TTS.Format),
		speech.WithHTTPTimeout(cfg.TTS.Timeout),
		speech.WithRequestsPerMinute(cfg.TTS.RequestsPerMinute),
	)

	sampleRate, err := speech.SampleRateForFormat(cfg.TTS.Format)
	if err != nil {
		closeLog()
		return nil, err
	}
	player, err := speech.NewPlayer(sampleRate, log)
	if err != nil {
		closeLog()
		return nil, err
	}

	console := display.NewConsole(os.Stdout)
	notifier := display.NewCLINotifier(console, log)

	opts := []engine.Option{
		engine.WithEcho(console.PrintSpoken, console.PrintPlayed),
	}
	var cache *speech.AudioCache
	if cfg.Cache.Enabled {
		cache = speech.NewAudioCache(cfg.Cache.Dir, cfg.Cache.Disk, log)
		opts = append(opts, engine.WithCache(cache))
		log.Info("audio cache enabled (dir=%s, disk=%v)", cfg.Cache.Dir, cfg.Cache.Disk)
	}

	eng := engine.New(cfg.Mode(), client, client, player, notifier, log, opts...)
	log.Info("TTS ready (voice=%s, region=%s, format=%s)", eng.Voice(), region, client.Format())

	return &app{
		cfg:     cfg,
		log:     log,
		console: console,
		engine:  eng,
		player:  player,
		cache:   cache,
		close:   closeLog,
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runWatch(*cobra.Command, []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	config.Watch(viper.GetViper(), a.log, a.cfg)

	fmt.Println(display.RenderBanner())
	a.console.PrintMode(a.engine.Mode())
	a.console.PrintHint("Copy some text to hear it. Press Ctrl+C to quit.")
	fmt.Println()

	monitor := clipboard.NewMonitor(clipboard.SystemReader{}, a.log,
		clipboard.WithPollInterval(a.cfg.PollInterval),
	)
	err = monitor.Run(ctx, a.engine)
	a.player.Stop()

	s := a.engine.Stats()
	a.log.Info("shutting down (events=%d, spoken=%d, rejected=%d, failed=%d)", s.Events, s.Spoken, s.Rejected, s.Failed)
	if a.cache != nil {
		hits, misses := a.cache.Stats()
		a.log.Info("audio cache: %d hits, %d misses", hits, misses)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println()
	a.console.PrintHint("Bye.")
	return nil
}
