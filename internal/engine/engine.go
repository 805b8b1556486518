// Package engine runs the clipboard-to-speech pipeline.
//
// Each accepted clipboard change goes through one synchronous cycle:
//
//	Idle → Filtering → TokenFetch → Synthesizing → Playing → Idle
//
// Rejected text returns from Filtering straight to Idle, and any failure
// returns to Idle with nothing but a log line and a console notice.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hammamikhairi/clipspeak/internal/clipboard"
	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/language"
	"github.com/hammamikhairi/clipspeak/internal/logger"
	"github.com/hammamikhairi/clipspeak/internal/speech"
)

// Compile-time interface check.
var _ clipboard.Handler = (*Engine)(nil)

// Option configures the Engine.
type Option func(*Engine)

// WithCache enables the audio cache. A hit skips token fetch and synthesis.
func WithCache(cache domain.AudioCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithEcho sets the function used to show accepted text and playback
// summaries on the console.
func WithEcho(spoken func(text string), played func(audioBytes int, cached bool)) Option {
	return func(e *Engine) {
		if spoken != nil {
			e.echoSpoken = spoken
		}
		if played != nil {
			e.echoPlayed = played
		}
	}
}

// Stats counts what the engine has done since it was created.
type Stats struct {
	Events   int // clipboard changes handled
	Spoken   int // cycles that reached the end of playback
	Rejected int // changes dropped by the language filter
	Failed   int // cycles that ended in an error
}

// Engine ties the language filter, the speech client and the audio player
// together. It is driven by the clipboard monitor.
type Engine struct {
	filter   *language.Filter
	voice    string
	issuer   domain.TokenIssuer
	synth    domain.Synthesizer
	player   domain.AudioPlayer
	cache    domain.AudioCache // nil when caching is disabled
	notifier domain.Notifier
	log      *logger.Logger

	echoSpoken func(text string)
	echoPlayed func(audioBytes int, cached bool)

	mu    sync.Mutex
	state domain.State
	stats Stats
}

// New creates an engine for the given mode. The mode is fixed for the
// engine's lifetime and decides both the filter and the voice.
func New(
	mode domain.Mode,
	issuer domain.TokenIssuer,
	synth domain.Synthesizer,
	player domain.AudioPlayer,
	notifier domain.Notifier,
	log *logger.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		filter:     language.NewFilter(mode),
		voice:      speech.VoiceFor(mode),
		issuer:     issuer,
		synth:      synth,
		player:     player,
		notifier:   notifier,
		log:        log,
		echoSpoken: func(string) {},
		echoPlayed: func(int, bool) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the engine's mode.
func (e *Engine) Mode() domain.Mode { return e.filter.Mode() }

// Voice returns the voice used for synthesis.
func (e *Engine) Voice() string { return e.voice }

// State returns the current pipeline stage.
func (e *Engine) State() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) setState(s domain.State) {
	e.mu.Lock()
	prev := e.state
	e.state = s
	e.mu.Unlock()
	if prev != s {
		e.log.Debug("engine: %s -> %s", prev, s)
	}
}

// Handle runs one pipeline cycle for a piece of clipboard text. It returns
// spoken=false with a nil error when the filter rejects the text.
func (e *Engine) Handle(ctx context.Context, text string) (spoken bool, err error) {
	e.setState(domain.StateFiltering)
	if !e.filter.ShouldSpeak(text) {
		e.setState(domain.StateIdle)
		e.count(func(s *Stats) { s.Rejected++ })
		e.log.Debug("engine: rejected %q", truncate(text, 40))
		return false, nil
	}

	e.echoSpoken(text)
	if err := e.Speak(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

// Speak synthesizes and plays text without consulting the filter.
func (e *Engine) Speak(ctx context.Context, text string) (err error) {
	defer e.setState(domain.StateIdle)
	defer func() {
		if err != nil {
			e.count(func(s *Stats) { s.Failed++ })
		} else {
			e.count(func(s *Stats) { s.Spoken++ })
		}
	}()

	audio, cached, err := e.audioFor(ctx, text)
	if err != nil {
		return err
	}

	e.setState(domain.StatePlaying)
	if err := e.player.Play(ctx, bytes.NewReader(audio)); err != nil {
		return fmt.Errorf("playing audio: %w", err)
	}
	e.echoPlayed(len(audio), cached)
	return nil
}

// audioFor returns audio for text from the cache, or fetches a token and
// synthesizes it.
func (e *Engine) audioFor(ctx context.Context, text string) (audio []byte, cached bool, err error) {
	if e.cache != nil {
		if audio, ok := e.cache.Get(e.voice, text); ok {
			return audio, true, nil
		}
	}

	e.setState(domain.StateTokenFetch)
	token, err := e.issuer.IssueToken(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("requesting token: %w", err)
	}

	e.setState(domain.StateSynthesizing)
	audio, err = e.synth.Synthesize(ctx, token, text, e.voice)
	if err != nil {
		return nil, false, fmt.Errorf("requesting tts: %w", err)
	}

	if e.cache != nil {
		e.cache.Put(e.voice, text, audio)
	}
	return audio, false, nil
}

// OnChange handles a clipboard change. Failures are logged and reported on
// the console; monitoring always continues.
func (e *Engine) OnChange(ctx context.Context, text string) clipboard.Result {
	id := newEventID()
	e.count(func(s *Stats) { s.Events++ })
	e.log.Debug("[%s] clipboard change happened (%d bytes)", id, len(text))

	spoken, err := e.Handle(ctx, text)
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		e.log.Info("[%s] cancelled", id)
	case err != nil:
		e.log.Error("[%s] %v", id, err)
		_ = e.notifier.NotifyUrgent(ctx, fmt.Sprintf("Something went wrong: %v", err))
	case spoken:
		e.log.Info("[%s] spoke %d chars", id, len([]rune(text)))
	}
	return clipboard.Continue
}

// OnError handles a clipboard read failure. Monitoring continues.
func (e *Engine) OnError(ctx context.Context, err error) clipboard.Result {
	e.log.Error("clipboard: %v", err)
	_ = e.notifier.NotifyUrgent(ctx, fmt.Sprintf("Error: %v", err))
	return clipboard.Continue
}

func (e *Engine) count(fn func(*Stats)) {
	e.mu.Lock()
	fn(&e.stats)
	e.mu.Unlock()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
