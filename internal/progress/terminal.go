package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Terminal layout constants
const (
	DefaultTermWidth = 80
	MinBarWidth      = 10
	MaxBarWidth      = 40
	InfoColumns      = 45
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
)

// TerminalRenderer draws a single-line progress bar on a terminal
type TerminalRenderer struct {
	out      io.Writer
	bar      progress.Model
	finished bool
}

// NewTerminalRenderer creates a renderer writing to out
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = barWidth(termWidth(out))
	return &TerminalRenderer{out: out, bar: bar}
}

// Render implements Renderer
func (t *TerminalRenderer) Render(s Snapshot) {
	if s.Done {
		if t.finished {
			return
		}
		t.finished = true
		fmt.Fprintf(t.out, "\r%s %s\n", t.bar.ViewAs(1.0), infoStyle.Render(t.doneInfo(s)))
		fmt.Fprintln(t.out, successStyle.Render("Download completed!"))
		return
	}
	t.finished = false

	line := t.progressInfo(s)
	if s.Total > 0 {
		line = t.bar.ViewAs(s.Fraction) + " " + line
	}
	fmt.Fprintf(t.out, "\r%s", line)
}

func (t *TerminalRenderer) progressInfo(s Snapshot) string {
	var parts []string
	if s.PercentStr != "" {
		parts = append(parts, strings.TrimSpace(s.PercentStr))
	}

	size := humanize.Bytes(uint64(s.Downloaded))
	if s.Total > 0 {
		total := humanize.Bytes(uint64(s.Total))
		if s.TotalEstimated {
			total = "~" + total
		}
		size += "/" + total
	}
	parts = append(parts, size)

	if s.SpeedStr != "" {
		parts = append(parts, s.SpeedStr)
	}
	if s.ETAStr != "" {
		parts = append(parts, "ETA "+s.ETAStr)
	}

	return infoStyle.Render(strings.Join(parts, " | ")) + " " + dimStyle.Render(s.ElapsedString())
}

func (t *TerminalRenderer) doneInfo(s Snapshot) string {
	return fmt.Sprintf("100%% | %s | %s", humanize.Bytes(uint64(s.Downloaded)), s.ElapsedString())
}

func termWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return DefaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width == 0 {
		return DefaultTermWidth
	}
	return width
}

func barWidth(width int) int {
	w := width - InfoColumns
	if w > MaxBarWidth {
		w = MaxBarWidth
	}
	if w < MinBarWidth {
		w = MinBarWidth
	}
	return w
}
