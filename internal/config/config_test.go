package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/logger"
	"github.com/hammamikhairi/clipspeak/internal/speech"
)

func TestParseEnvMissingKey(t *testing.T) {
	_, err := ParseEnv(map[string]string{})
	if !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	_, err = ParseEnv(map[string]string{speech.EnvAzureSpeechKey: ""})
	if !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey for empty key, got %v", err)
	}
}

func TestParseEnvDefaults(t *testing.T) {
	e, err := ParseEnv(map[string]string{speech.EnvAzureSpeechKey: "secret"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.SpeechKey != "secret" {
		t.Fatalf("unexpected key %q", e.SpeechKey)
	}
	if e.SpeechRegion != speech.DefaultRegion {
		t.Fatalf("expected default region %q, got %q", speech.DefaultRegion, e.SpeechRegion)
	}

	e, err = ParseEnv(map[string]string{
		speech.EnvAzureSpeechKey:    "secret",
		speech.EnvAzureSpeechRegion: "japaneast",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.SpeechRegion != "japaneast" {
		t.Fatalf("expected japaneast, got %q", e.SpeechRegion)
	}
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.English {
		t.Fatal("expected japanese mode by default")
	}
	if cfg.Mode() != domain.ModeJapanese {
		t.Fatalf("expected japanese mode, got %s", cfg.Mode())
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("unexpected poll interval %s", cfg.PollInterval)
	}
	if cfg.TTS.Format != speech.DefaultAudioFormat {
		t.Fatalf("unexpected format %q", cfg.TTS.Format)
	}
	if cfg.TTS.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.TTS.Timeout)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled by default")
	}
	if cfg.LogLevel != logger.LevelNormal {
		t.Fatalf("unexpected log level %s", cfg.LogLevel)
	}
}

func TestReadFileExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipspeak.yml")
	content := "english: true\nregion: westus\ntts:\n  requests_per_minute: 20\nlog:\n  level: verbose\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	used, err := ReadFile(v, path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if used != path {
		t.Fatalf("expected %s, got %s", path, used)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.English || cfg.Mode() != domain.ModeEnglish {
		t.Fatal("expected english mode from file")
	}
	if cfg.TTS.RequestsPerMinute != 20 {
		t.Fatalf("expected 20 rpm, got %d", cfg.TTS.RequestsPerMinute)
	}
	if cfg.LogLevel != logger.LevelVerbose {
		t.Fatalf("expected verbose, got %s", cfg.LogLevel)
	}
	if got := cfg.ResolveRegion(Env{SpeechRegion: "japaneast"}); got != "westus" {
		t.Fatalf("expected file region to win, got %s", got)
	}
}

func TestReadFileExplicitMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yml")

	v := viper.New()
	used, err := ReadFile(v, path)
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if used != path {
		t.Fatalf("expected %s, got %s", path, used)
	}
}

func TestReadFileSearchDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CLIPSPEAK_CONFIG_HOME", home)

	v := viper.New()
	SetDefaults(v)
	used, err := ReadFile(v, "")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if used != filepath.Join(home, "clipspeak.yml") {
		t.Fatalf("expected new file under CLIPSPEAK_CONFIG_HOME, got %s", used)
	}

	if err := os.WriteFile(used, []byte("poll_interval: 1s\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	v = viper.New()
	SetDefaults(v)
	if _, err := ReadFile(v, ""); err != nil {
		t.Fatalf("read: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("expected 1s from file, got %s", cfg.PollInterval)
	}
}

func TestResolveRegion(t *testing.T) {
	var cfg Config
	if got := cfg.ResolveRegion(Env{SpeechRegion: "eastus"}); got != "eastus" {
		t.Fatalf("expected env region, got %s", got)
	}
	if got := cfg.ResolveRegion(Env{}); got != speech.DefaultRegion {
		t.Fatalf("expected default region, got %s", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]struct {
		key   string
		value any
	}{
		"format":        {KeyTTSFormat, "riff-16khz-16bit-mono-pcm"},
		"poll interval": {KeyPollInterval, "0s"},
		"timeout":       {KeyTTSTimeout, "-1s"},
		"rate":          {KeyRequestsPerMinute, -5},
		"log level":     {KeyLogLevel, "loud"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)
			if _, err := Load(v); err == nil {
				t.Fatalf("expected error for %s=%v", tt.key, tt.value)
			}
		})
	}
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clipspeak.yml")

	if err := EnsureFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != DefaultFile {
		t.Fatal("expected default config contents")
	}

	// An existing file is left alone.
	if err := os.WriteFile(path, []byte("english: true\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := EnsureFile(path); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "english: true\n" {
		t.Fatalf("existing file was overwritten: %q", data)
	}

	if err := EnsureFile(filepath.Join(t.TempDir(), "clipspeak.toml")); err == nil {
		t.Fatal("expected error for non-yaml path")
	}
}

func TestDefaultFileLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipspeak.yml")
	if err := EnsureFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	if _, err := ReadFile(v, path); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := Load(v); err != nil {
		t.Fatalf("default file should load cleanly: %v", err)
	}
}

func TestReloadAppliesLogLevel(t *testing.T) {
	var buf strings.Builder
	log := logger.New(logger.LevelNormal, &buf)

	v := viper.New()
	SetDefaults(v)
	current, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	v.Set(KeyLogLevel, "off")
	next := reload(v, log, current, "clipspeak.yml")

	if next.LogLevel != logger.LevelOff {
		t.Fatalf("expected off, got %s", next.LogLevel)
	}
	if log.GetLevel() != logger.LevelOff {
		t.Fatalf("expected logger switched off, got %s", log.GetLevel())
	}

	// An invalid edit keeps the previous config.
	v.Set(KeyPollInterval, "-1s")
	if kept := reload(v, log, next, "clipspeak.yml"); kept != next {
		t.Fatalf("expected previous config kept, got %+v", kept)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CLIPSPEAK_TEST_VALUE=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CLIPSPEAK_TEST_VALUE", "")
	os.Unsetenv("CLIPSPEAK_TEST_VALUE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("CLIPSPEAK_TEST_VALUE"); got != "from-dotenv" {
		t.Fatalf("expected value from .env, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}
