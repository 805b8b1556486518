package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/hammamikhairi/clipspeak/internal/domain"
)

// Compile-time interface check.
var _ domain.ClipboardReader = SystemReader{}

// SystemReader reads the OS clipboard. On Linux it shells out to xclip,
// xsel or wl-paste, whichever is installed.
type SystemReader struct{}

// ReadText returns the clipboard's text content.
func (SystemReader) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("%w: no clipboard utility on %s", domain.ErrClipboardUnavailable, runtime.GOOS)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrClipboardUnavailable, err)
	}
	return text, nil
}
