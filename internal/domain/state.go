package domain

// State is the stage of the clipboard-to-speech pipeline.
type State int

const (
	StateIdle State = iota
	StateFiltering
	StateTokenFetch
	StateSynthesizing
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateFiltering:
		return "filtering"
	case StateTokenFetch:
		return "token-fetch"
	case StateSynthesizing:
		return "synthesizing"
	case StatePlaying:
		return "playing"
	default:
		return "idle"
	}
}
