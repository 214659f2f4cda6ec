package watch

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/spachava753/imsgwatch/macos/messages"
)

const (
	// DefaultTextLimit is the number of characters of message text printed.
	DefaultTextLimit = 100

	separatorWidth = 50
	ellipsis       = "..."
	outboundMarker = "→ OUT"
	inboundMarker  = "← IN"
)

// ColorMode controls ANSI styling of console output.
type ColorMode string

const (
	// ColorAuto styles output only when the writer is a colour terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways styles output regardless of the writer.
	ColorAlways ColorMode = "always"
	// ColorNever writes plain text.
	ColorNever ColorMode = "never"
)

// ParseColorMode validates a colour mode name.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("watch: invalid color mode %q", s)
	}
}

// Console is a Sink that prints messages as human-readable blocks.
type Console struct {
	w         io.Writer
	textLimit int

	timeStyle  lipgloss.Style
	outStyle   lipgloss.Style
	inStyle    lipgloss.Style
	labelStyle lipgloss.Style
	sepStyle   lipgloss.Style
	errStyle   lipgloss.Style
}

// ConsoleOption configures a Console.
type ConsoleOption func(*consoleConfig)

type consoleConfig struct {
	textLimit int
	color     ColorMode
}

// WithTextLimit sets how many characters of message text are printed.
func WithTextLimit(n int) ConsoleOption {
	return func(c *consoleConfig) {
		c.textLimit = n
	}
}

// WithColor sets the colour mode.
func WithColor(mode ColorMode) ConsoleOption {
	return func(c *consoleConfig) {
		c.color = mode
	}
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	cfg := consoleConfig{textLimit: DefaultTextLimit, color: ColorAuto}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.textLimit <= 0 {
		cfg.textLimit = DefaultTextLimit
	}

	r := lipgloss.NewRenderer(w)
	switch cfg.color {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	return &Console{
		w:          w,
		textLimit:  cfg.textLimit,
		timeStyle:  r.NewStyle().Foreground(lipgloss.Color("243")),
		outStyle:   r.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		inStyle:    r.NewStyle().Foreground(lipgloss.Color("76")).Bold(true),
		labelStyle: r.NewStyle().Foreground(lipgloss.Color("243")),
		sepStyle:   r.NewStyle().Foreground(lipgloss.Color("238")),
		errStyle:   r.NewStyle().Foreground(lipgloss.Color("204")),
	}
}

// Emit prints one message block.
func (c *Console) Emit(msg messages.Message) error {
	direction := c.inStyle.Render(inboundMarker)
	if msg.IsFromMe {
		direction = c.outStyle.Render(outboundMarker)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", c.timeStyle.Render("["+msg.SentAt.Format(time.TimeOnly)+"]"), direction)
	fmt.Fprintf(&sb, "%s %s\n", c.labelStyle.Render("From:"), msg.Sender)
	fmt.Fprintf(&sb, "%s %s%s\n", c.labelStyle.Render("Text:"), truncate(msg.Text, c.textLimit), ellipsis)
	sb.WriteString(c.separator())

	_, err := io.WriteString(c.w, sb.String())
	return err
}

// Banner prints the startup banner.
func (c *Console) Banner(path string, interval time.Duration, cursor int64) error {
	var sb strings.Builder
	sb.WriteString("iMessage Monitor Started\n")
	fmt.Fprintf(&sb, "Watching: %s\n", path)
	fmt.Fprintf(&sb, "Poll interval: %s\n", interval)
	sb.WriteString(c.separator())
	fmt.Fprintf(&sb, "Starting from ROWID: %d\n\n", cursor)

	_, err := io.WriteString(c.w, sb.String())
	return err
}

// Stopped prints the shutdown notice.
func (c *Console) Stopped() error {
	_, err := io.WriteString(c.w, "\nMonitor stopped\n")
	return err
}

// MissingDatabase prints the diagnostic shown when chat.db does not exist.
func (c *Console) MissingDatabase(path string) error {
	_, err := fmt.Fprintf(c.w, "%s\nMake sure Messages.app is set up on this Mac.\n",
		c.errStyle.Render("Error: iMessage database not found at "+path))
	return err
}

func (c *Console) separator() string {
	return c.sepStyle.Render(strings.Repeat("-", separatorWidth)) + "\n"
}

// truncate returns the first limit characters of s.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
