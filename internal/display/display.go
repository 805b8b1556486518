// Package display provides the console output for clipspeak.
//
// The [Console] type prints lipgloss-styled status lines: the startup
// banner, the active mode, clipboard text that is about to be spoken, and
// errors. Writes are serialised so lines from different goroutines never
// interleave.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/clipspeak/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle: muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Spoken text: soft sky blue.
	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Mode / section headers: soft mint.
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Secondary text: dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent: soft coral for errors.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))
)

// Console writes styled status lines. Safe for concurrent use.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console writing to out. If out is nil, os.Stdout is used.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Println prints a line. Thread-safe.
func (c *Console) Println(a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// Printf prints a formatted line. A trailing newline is added. Thread-safe.
func (c *Console) Printf(format string, a ...interface{}) {
	c.Println(fmt.Sprintf(format, a...))
}

// PrintMode prints the "Running in <mode> mode" startup line.
func (c *Console) PrintMode(mode domain.Mode) {
	c.Println(stepStyle.Render(fmt.Sprintf("  Running in %s mode", mode)))
}

// PrintSpoken echoes clipboard text that is about to be spoken.
func (c *Console) PrintSpoken(text string) {
	c.Println(labelStyle.Render("  ▸ ") + chatStyle.Render(text))
}

// PrintPlayed prints a dimmed summary after playback.
func (c *Console) PrintPlayed(audioBytes int, cached bool) {
	src := "azure"
	if cached {
		src = "cache"
	}
	c.PrintHint(fmt.Sprintf("played %s (%s)", humanize.Bytes(uint64(audioBytes)), src))
}

// PrintHint prints a secondary/dimmed line.
func (c *Console) PrintHint(text string) {
	c.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (c *Console) PrintUrgent(text string) {
	c.Println(urgentOutputStyle.Render("  " + text))
}
