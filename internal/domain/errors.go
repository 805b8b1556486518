package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrMissingAPIKey        = errors.New("azure speech key not set")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrTokenRequest         = errors.New("token request failed")
	ErrSynthesis            = errors.New("speech synthesis failed")
	ErrPlayback             = errors.New("audio playback failed")
	ErrAudioDevice          = errors.New("audio device unavailable")
)
