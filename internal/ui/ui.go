// Package ui renders engine progress events on a plain terminal.
//
// Each file gets one line that is redrawn in place: the file name padded to
// 40 columns and a 40-wide bar, blue while bytes arrive and green once the
// file is complete. Sources are announced in bold, skipped files get a
// yellow marker and errors are printed in red with the URL and path.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/course-mirror/internal/download"
)

// Column widths of a progress line.
const (
	NameWidth = 40
	BarWidth  = 40
)

const (
	colorActive = "12"
	colorDone   = "10"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDone))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Bar is a fixed-width indicator filled in proportion to bytes received
// over the expected total.
type Bar struct {
	model   progress.Model
	written int64
	total   int64
}

// NewBar creates a bar width cells wide.
func NewBar(width int) *Bar {
	return &Bar{
		model: progress.New(
			progress.WithWidth(width),
			progress.WithoutPercentage(),
			progress.WithFillCharacters('=', ' '),
			progress.WithSolidFill(colorActive),
		),
	}
}

// Update records the running byte count and the expected total.
func (b *Bar) Update(written, total int64) {
	b.written = written
	b.total = total
}

// Known reports whether the expected total is known.
func (b *Bar) Known() bool {
	return b.total > 0
}

// Percent returns the filled fraction, clamped to [0, 1].
func (b *Bar) Percent() float64 {
	if b.total <= 0 {
		return 0
	}
	p := float64(b.written) / float64(b.total)
	if p > 1 {
		return 1
	}
	return p
}

// Filled returns the number of filled cells.
func (b *Bar) Filled() int {
	return int(float64(b.model.Width) * b.Percent())
}

// View renders the bar, green once it is full.
func (b *Bar) View() string {
	b.model.FullColor = colorActive
	if b.Percent() >= 1 {
		b.model.FullColor = colorDone
	}
	return b.model.ViewAs(b.Percent())
}

// Printer writes progress events to a terminal.
type Printer struct {
	out     io.Writer
	verbose bool
	bar     *Bar

	// open is set while a progress line waits for its newline.
	open bool
}

// NewPrinter creates a Printer. verbose shows LevelVerbose events.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose, bar: NewBar(BarWidth)}
}

// Handle renders one event. It is meant to be passed to download.NewManager.
func (p *Printer) Handle(e download.ProgressEvent) {
	switch e.Level {
	case download.LevelSource:
		p.closeLine()
		fmt.Fprintln(p.out, headerStyle.Render(e.Message))

	case download.LevelTransfer:
		p.transferLine(e)
		p.open = true

	case download.LevelFileDone:
		p.transferLine(e)
		fmt.Fprintln(p.out)
		p.open = false

	case download.LevelSkipped:
		p.closeLine()
		fmt.Fprintf(p.out, " %-*.*s [%s]\n", NameWidth, NameWidth, e.File, warningStyle.Render(center("Skipped", BarWidth)))

	case download.LevelError:
		p.closeLine()
		fmt.Fprintln(p.out, errorStyle.Render(e.Message))

	case download.LevelWarning:
		p.closeLine()
		fmt.Fprintln(p.out, warningStyle.Render(e.Message))

	case download.LevelSuccess:
		p.closeLine()
		fmt.Fprintln(p.out, dimStyle.Render(e.Message))
		fmt.Fprintln(p.out)

	case download.LevelVerbose:
		if !p.verbose {
			return
		}
		p.closeLine()
		fmt.Fprintln(p.out, dimStyle.Render(e.Message))

	default:
		p.closeLine()
		fmt.Fprintln(p.out, e.Message)
	}
}

func (p *Printer) transferLine(e download.ProgressEvent) {
	if e.Total <= 0 {
		fmt.Fprintf(p.out, "\r -> Downloading: %-20s", e.File)
		return
	}
	p.bar.Update(e.Written, e.Total)
	fmt.Fprintf(p.out, "\r %-*.*s [%s]", NameWidth, NameWidth, e.File, p.bar.View())
}

func (p *Printer) closeLine() {
	if p.open {
		fmt.Fprintln(p.out)
		p.open = false
	}
}

// Summary prints the closing report of a run.
func (p *Printer) Summary(s download.Summary) {
	p.closeLine()
	line := fmt.Sprintf("%d source(s): %d downloaded (%s), %d skipped, %d failed",
		s.Sources, s.Completed, FormatBytes(s.Bytes), s.Skipped, s.Failed)
	if s.Failed > 0 {
		fmt.Fprintln(p.out, warningStyle.Render(line))
		for _, f := range s.Failures {
			fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("  %s: %s -> %s", f.Kind, f.Link.RemoteURL, f.Link.LocalPath)))
		}
		return
	}
	fmt.Fprintln(p.out, successStyle.Render(line))
}

// Plan prints the resolved links of a dry run.
func (p *Printer) Plan(plans []download.SourcePlan) {
	for _, plan := range plans {
		fmt.Fprintln(p.out, headerStyle.Render(plan.Source.Name))
		for _, l := range plan.Links {
			fmt.Fprintf(p.out, "  %s -> %s\n", l.RemoteURL, l.LocalPath)
		}
		fmt.Fprintln(p.out)
	}
}

// FormatBytes renders n with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
