package domain

// Mode selects which clipboard text is spoken and with which voice.
type Mode int

const (
	// ModeJapanese speaks only text containing Japanese script.
	ModeJapanese Mode = iota
	// ModeEnglish speaks any non-blank text with an English voice.
	ModeEnglish
)

// ParseMode maps the --english startup flag to a Mode.
func ParseMode(english bool) Mode {
	if english {
		return ModeEnglish
	}
	return ModeJapanese
}

func (m Mode) String() string {
	if m == ModeEnglish {
		return "english"
	}
	return "japanese"
}
