package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/simonyos/toolrunner/internal/agent"
	"github.com/simonyos/toolrunner/internal/tui/components"
	"github.com/simonyos/toolrunner/internal/tui/theme"
)

// Printer writes run progress as styled lines. It implements
// agent.EventHandler and may be shared by concurrent runs.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	verbose  bool
	renderer *glamour.TermRenderer
}

// PrinterOption configures a Printer
type PrinterOption func(*Printer)

// WithVerbose also prints engine turns
func WithVerbose(v bool) PrinterOption {
	return func(p *Printer) { p.verbose = v }
}

// WithMarkdown renders final answers as markdown at the given width
func WithMarkdown(width int) PrinterOption {
	return func(p *Printer) { p.renderer = components.NewRenderer(width) }
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{w: w}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleEvent prints one run event
func (p *Printer) HandleEvent(e agent.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case agent.EventRunStart:
		fmt.Fprintln(p.w, theme.Title().Render("▶ "+e.Agent)+" "+theme.Muted().Render(e.Prompt))
	case agent.EventThinking:
		if p.verbose {
			fmt.Fprintln(p.w, theme.Muted().Render(fmt.Sprintf("  … turn %d", e.Turn)))
		}
	case agent.EventMessage:
		fmt.Fprintln(p.w, "  "+theme.Muted().Italic(true).Render(firstLine(e.Text)))
	case agent.EventToolCall:
		fmt.Fprintln(p.w, "  "+theme.Running().Render("◐")+" "+e.Tool+" "+theme.Muted().Render(FormatArgs(e.Arguments)))
	case agent.EventToolResult:
		icon := theme.Success().Render("✓")
		if e.IsError {
			icon = theme.Failure().Render("✗")
		}
		fmt.Fprintln(p.w, "  "+icon+" "+e.Tool+": "+theme.Muted().Render(firstLine(e.Result)))
	case agent.EventError:
		fmt.Fprintln(p.w, theme.Failure().Render("✗ "+e.Error))
	}
}

// Final prints a run's answer
func (p *Printer) Final(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.renderer != nil {
		text = components.RenderMarkdown(p.renderer, text)
	}
	fmt.Fprintln(p.w, text)
}
