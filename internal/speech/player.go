package speech

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"

	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/logger"
)

// Compile-time interface check.
var _ domain.AudioPlayer = (*Player)(nil)

// Player decodes MP3 audio and plays it through the default output device
// via oto.
type Player struct {
	ctx        *oto.Context
	sampleRate int
	log        *logger.Logger
	mu         sync.Mutex
	active     *oto.Player // currently playing, nil when idle
}

// NewPlayer creates an audio player. Initializes the system audio context
// at the given sample rate. oto allows a single context per process, so
// create one Player and share it.
func NewPlayer(sampleRate int, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAudioDevice, err)
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, ChannelCount)
	return &Player{ctx: ctx, sampleRate: sampleRate, log: log}, nil
}

// Play buffers and plays MP3 audio synchronously. Blocks until playback
// finishes, ctx is cancelled, or Stop is called.
func (p *Player) Play(ctx context.Context, audio io.Reader) error {
	buf, err := BufferAudio(audio)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPlayback, err)
	}

	dec, err := mp3.NewDecoder(buf)
	if err != nil {
		return fmt.Errorf("%w: decoding mp3: %v", domain.ErrPlayback, err)
	}
	if dec.SampleRate() != p.sampleRate {
		return fmt.Errorf("%w: stream is %d Hz, device opened at %d Hz", domain.ErrPlayback, dec.SampleRate(), p.sampleRate)
	}

	player := p.ctx.NewPlayer(dec)

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.active = nil
		p.mu.Unlock()
	}()

	player.Play()
	p.log.Debug("audio player: playing %s of mp3", humanize.Bytes(uint64(buf.Size())))

	// Wait for playback to complete or be interrupted.
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			_ = player.Close()
			p.log.Debug("audio player: cancelled")
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		_ = player.Close()
		return fmt.Errorf("%w: %v", domain.ErrPlayback, err)
	}
	return player.Close()
}

// Stop interrupts the currently playing audio, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}
