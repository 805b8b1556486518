package speech

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/clipspeak/internal/logger"
)

func TestAudioCacheMemory(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	c := NewAudioCache("", false, log)

	if _, ok := c.Get(JapaneseVoice, "こんにちは"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(JapaneseVoice, "こんにちは", []byte("audio-ja"))

	got, ok := c.Get(JapaneseVoice, "こんにちは")
	if !ok || string(got) != "audio-ja" {
		t.Fatalf("expected hit, got %q (%v)", got, ok)
	}

	// Same text under another voice is a different entry.
	if _, ok := c.Get(EnglishVoice, "こんにちは"); ok {
		t.Fatal("expected miss for a different voice")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Fatalf("expected 1 hit / 2 misses, got %d / %d", hits, misses)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after clear, got %d", c.Len())
	}
}

func TestAudioCacheDiskRoundTrip(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	dir := t.TempDir()
	audio := bytes.Repeat([]byte("mp3-frame-"), 200)

	c := NewAudioCache(dir, true, log)
	c.Put(EnglishVoice, "hello", audio)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".mp3.zst") {
		t.Fatalf("expected one compressed entry, got %v", entries)
	}
	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if len(raw) >= len(audio) {
		t.Fatalf("expected compressed entry smaller than %d bytes, got %d", len(audio), len(raw))
	}

	// A fresh cache reads the entry back from disk.
	fresh := NewAudioCache(dir, false, log)
	got, ok := fresh.Get(EnglishVoice, "hello")
	if !ok {
		t.Fatal("expected disk hit")
	}
	if !bytes.Equal(got, audio) {
		t.Fatal("disk entry differs from original audio")
	}
	if fresh.Len() != 1 {
		t.Fatalf("expected disk hit promoted to memory, got %d entries", fresh.Len())
	}
}

func TestAudioCacheNoDiskWrite(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	dir := t.TempDir()

	c := NewAudioCache(dir, false, log)
	c.Put(JapaneseVoice, "テスト", []byte("x"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing written to disk, got %d entries", len(entries))
	}
}

func TestAudioCacheCorruptEntry(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	dir := t.TempDir()

	c := NewAudioCache(dir, true, log)
	path := c.diskPath(hashKey(JapaneseVoice, "壊れた"))
	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, ok := c.Get(JapaneseVoice, "壊れた"); ok {
		t.Fatal("expected corrupt entry to be treated as a miss")
	}
}
