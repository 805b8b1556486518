package domain

import (
	"context"
	"io"
)

// ClipboardReader reads the current textual content of the clipboard.
// Implementations can wrap the OS clipboard or be scripted in tests.
type ClipboardReader interface {
	ReadText() (string, error)
}

// TokenIssuer exchanges a subscription key for a short-lived bearer token.
type TokenIssuer interface {
	IssueToken(ctx context.Context) (string, error)
}

// Synthesizer turns text into encoded audio using the given bearer token
// and voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, token, text, voice string) ([]byte, error)
}

// AudioPlayer plays encoded audio, blocking until playback finishes or ctx
// is cancelled.
type AudioPlayer interface {
	Play(ctx context.Context, audio io.Reader) error
}

// AudioCache stores synthesized audio keyed by voice and text.
type AudioCache interface {
	Get(voice, text string) ([]byte, bool)
	Put(voice, text string, audio []byte)
}

// Notifier delivers status messages to the user. Implementations can write
// to stdout or anything else a human will read.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
