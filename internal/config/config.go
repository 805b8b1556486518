// Package config loads clipspeak settings from the environment, an optional
// YAML file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/logger"
	"github.com/hammamikhairi/clipspeak/internal/speech"
)

// AppName is used for config and cache directory names.
const AppName = "clipspeak"

// Config keys shared by the file, the flags and the defaults.
const (
	KeyEnglish           = "english"
	KeyRegion            = "region"
	KeyPollInterval      = "poll_interval"
	KeyLogLevel          = "log.level"
	KeyLogFile           = "log.file"
	KeyCacheEnabled      = "cache.enabled"
	KeyCacheDir          = "cache.dir"
	KeyCacheDisk         = "cache.disk"
	KeyTTSFormat         = "tts.format"
	KeyTTSTimeout        = "tts.timeout"
	KeyRequestsPerMinute = "tts.requests_per_minute"
)

// Env holds settings that only come from the environment.
type Env struct {
	SpeechKey    string `env:"AZURE_SPEECH_KEY,required,notEmpty"`
	SpeechRegion string `env:"AZURE_SPEECH_REGION" envDefault:"australiaeast"`
}

// CacheConfig configures the audio cache.
type CacheConfig struct {
	Enabled bool
	Dir     string
	Disk    bool
}

// TTSConfig configures the Azure client.
type TTSConfig struct {
	Format            string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Config is the resolved runtime configuration.
type Config struct {
	English      bool
	Region       string // empty means use the environment
	PollInterval time.Duration
	LogLevel     logger.Level
	LogFile      string
	Cache        CacheConfig
	TTS          TTSConfig
}

// Mode returns the speaking mode selected by the config.
func (c Config) Mode() domain.Mode { return domain.ParseMode(c.English) }

// ResolveRegion picks the Azure region. A region from the config file or
// the --region flag wins over AZURE_SPEECH_REGION.
func (c Config) ResolveRegion(e Env) string {
	if c.Region != "" {
		return c.Region
	}
	if e.SpeechRegion != "" {
		return e.SpeechRegion
	}
	return speech.DefaultRegion
}

// LoadDotEnv loads a .env file from the working directory. A missing file
// is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ParseEnv reads the environment. When environ is nil the process
// environment is used. A missing or empty key is reported as
// domain.ErrMissingAPIKey.
func ParseEnv(environ map[string]string) (Env, error) {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	e, err := env.ParseAsWithOptions[Env](opts)
	if err != nil {
		if errors.Is(err, env.EnvVarIsNotSetError{}) || errors.Is(err, env.EmptyEnvVarError{}) {
			return Env{}, fmt.Errorf("%w: set %s", domain.ErrMissingAPIKey, speech.EnvAzureSpeechKey)
		}
		return Env{}, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnglish, false)
	v.SetDefault(KeyRegion, "")
	v.SetDefault(KeyPollInterval, "250ms")
	v.SetDefault(KeyLogLevel, logger.LevelNormal.String())
	v.SetDefault(KeyLogFile, ".clipspeak-logs/clipspeak.log")
	v.SetDefault(KeyCacheEnabled, false)
	v.SetDefault(KeyCacheDir, DefaultCacheDir())
	v.SetDefault(KeyCacheDisk, true)
	v.SetDefault(KeyTTSFormat, speech.DefaultAudioFormat)
	v.SetDefault(KeyTTSTimeout, "30s")
	v.SetDefault(KeyRequestsPerMinute, 0)
}

// SearchDirs returns the directories searched for clipspeak.yml, in order.
func SearchDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("finding config directories: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, AppName)}, dirs...)
	}
	if c := os.Getenv("CLIPSPEAK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// DefaultCacheDir returns the per-user cache directory for audio.
func DefaultCacheDir() string {
	dir, err := gap.NewScope(gap.User, AppName).CacheDir()
	if err != nil {
		return ".clipspeak-cache"
	}
	return dir
}

// ReadFile locates and reads the config file. An explicit path wins over
// the search dirs. It returns the path of the file used, or the path a new
// file should be written to when none exists.
func ReadFile(v *viper.Viper, explicit string) (string, error) {
	v.SetConfigType("yaml")

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return explicit, nil
			}
			return explicit, fmt.Errorf("reading %s: %w", explicit, err)
		}
		return explicit, nil
	}

	dirs, err := SearchDirs()
	if err != nil {
		return "", err
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetConfigName(AppName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return "", fmt.Errorf("reading config: %w", err)
		}
		return filepath.Join(dirs[0], AppName+".yml"), nil
	}
	return v.ConfigFileUsed(), nil
}

// Load builds a Config from viper and validates it.
func Load(v *viper.Viper) (Config, error) {
	level, err := logger.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		English:      v.GetBool(KeyEnglish),
		Region:       v.GetString(KeyRegion),
		PollInterval: v.GetDuration(KeyPollInterval),
		LogLevel:     level,
		LogFile:      v.GetString(KeyLogFile),
		Cache: CacheConfig{
			Enabled: v.GetBool(KeyCacheEnabled),
			Dir:     v.GetString(KeyCacheDir),
			Disk:    v.GetBool(KeyCacheDisk),
		},
		TTS: TTSConfig{
			Format:            v.GetString(KeyTTSFormat),
			Timeout:           v.GetDuration(KeyTTSTimeout),
			RequestsPerMinute: v.GetInt(KeyRequestsPerMinute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyPollInterval, c.PollInterval)
	}
	if c.TTS.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyTTSTimeout, c.TTS.Timeout)
	}
	if c.TTS.RequestsPerMinute < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyRequestsPerMinute, c.TTS.RequestsPerMinute)
	}
	if _, err := speech.SampleRateForFormat(c.TTS.Format); err != nil {
		return err
	}
	if c.Cache.Enabled && c.Cache.Disk && c.Cache.Dir == "" {
		return fmt.Errorf("%s is required when the disk cache is on", KeyCacheDir)
	}
	return nil
}

// Watch re-reads the config file when it changes. Only the log level is
// applied live; other changes are logged and need a restart.
func Watch(v *viper.Viper, log *logger.Logger, current Config) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		current = reload(v, log, current, e.Name)
	})
	v.WatchConfig()
	log.Debug("config: watching %s", v.ConfigFileUsed())
}

func reload(v *viper.Viper, log *logger.Logger, current Config, name string) Config {
	next, err := Load(v)
	if err != nil {
		log.Warn("config: ignoring change to %s: %v", name, err)
		return current
	}

	if next.LogLevel != current.LogLevel {
		log.SetLevel(next.LogLevel)
		log.Info("config: log level is now %s", next.LogLevel)
	}

	live := current
	live.LogLevel = next.LogLevel
	if live != next {
		log.Warn("config: %s changed; restart to apply settings other than %s", name, KeyLogLevel)
	}
	return next
}

// DefaultFile is written by EnsureFile when no config exists.
const DefaultFile = `# Speak any copied text with an English voice, not just Japanese text.
english: false
# Azure region. Empty uses AZURE_SPEECH_REGION, then australiaeast.
region: ""
# How often the clipboard is read.
poll_interval: "250ms"

log:
  # off, normal or verbose
  level: "normal"
  # Log file path, or "stderr" to log to the console.
  file: ".clipspeak-logs/clipspeak.log"

cache:
  # Reuse audio for text that was already spoken.
  enabled: false
  # dir: "/path/to/cache"
  # Persist cached audio to dir.
  disk: true

tts:
  # Azure output format. Must be an MP3 format.
  format: "audio-16khz-64kbitrate-mono-mp3"
  timeout: "30s"
  # 0 means unlimited.
  requests_per_minute: 0
`

// EnsureFile writes DefaultFile to path when no file exists there.
func EnsureFile(path string) error {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("unable to create directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(DefaultFile), 0o600); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
