// Package printing writes the user facing output of superscript: prefixed status
// lines, numbered lists, confirmation prompts, tables and progress bars.
package printing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	// Indent is the width of one list level
	Indent = "    "

	successPrefix  = "[+] "
	infoPrefix     = "[*] "
	errorPrefix    = "[-] "
	verbosePrefix  = "[~] "
	questionPrefix = "[?] "
)

// Printer writes styled messages to Out and reads answers from In
type Printer struct {
	Out io.Writer
	In  io.Reader

	// Verbose enables the lines written by Verbose
	Verbose bool

	// Interactive allows prompting; without it Confirm needs AssumeYes
	Interactive bool

	// AssumeYes answers every confirmation with yes
	AssumeYes bool

	// terminal is set when Out is a terminal and progress can redraw in place
	terminal bool

	// reader wraps In once so that successive prompts share its buffer
	reader *bufio.Reader

	renderer *lipgloss.Renderer
	success  lipgloss.Style
	info     lipgloss.Style
	failure  lipgloss.Style
	verbose  lipgloss.Style
	question lipgloss.Style
	errText  lipgloss.Style
}

// Option configures a printer
type Option func(*Printer)

// WithVerbose enables verbose output
func WithVerbose(verbose bool) Option {
	return func(p *Printer) {
		p.Verbose = verbose
	}
}

// WithAssumeYes answers confirmations with yes
func WithAssumeYes(yes bool) Option {
	return func(p *Printer) {
		p.AssumeYes = yes
	}
}

// WithIO replaces stdout and stdin. Prompts are disabled unless both are terminals.
func WithIO(out io.Writer, in io.Reader) Option {
	return func(p *Printer) {
		p.Out = out
		p.In = in
		p.Interactive = isTerminal(out) && isTerminal(in)
	}
}

// WithInteractive overrides the terminal detection of prompts
func WithInteractive(interactive bool) Option {
	return func(p *Printer) {
		p.Interactive = interactive
	}
}

// New creates a printer on stdout and stdin
func New(opts ...Option) *Printer {
	p := &Printer{
		Out: os.Stdout,
		In:  os.Stdin,
	}
	p.Interactive = isTerminal(p.Out) && isTerminal(p.In)

	for _, opt := range opts {
		opt(p)
	}
	p.terminal = isTerminal(p.Out)

	renderer := lipgloss.NewRenderer(p.Out)
	p.renderer = renderer
	p.success = renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	p.info = renderer.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	p.failure = renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	p.verbose = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	p.question = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	p.errText = renderer.NewStyle().Foreground(lipgloss.Color("1"))
	return p
}

// Success writes a "[+]" line
func (p *Printer) Success(format string, args ...any) {
	p.line(p.success.Render(successPrefix) + fmt.Sprintf(format, args...))
}

// Info writes a "[*]" line
func (p *Printer) Info(format string, args ...any) {
	p.line(p.info.Render(infoPrefix) + fmt.Sprintf(format, args...))
}

// Error writes a "[-]" line with the message in red
func (p *Printer) Error(format string, args ...any) {
	p.line(p.failure.Render(errorPrefix) + p.errText.Render(fmt.Sprintf(format, args...)))
}

// Verbosef writes a "[~]" line when verbose output is enabled
func (p *Printer) Verbosef(format string, args ...any) {
	if !p.Verbose {
		return
	}
	p.line(p.verbose.Render(verbosePrefix) + fmt.Sprintf(format, args...))
}

// Count writes content indented by level. A non-nil counter is printed as "[i] ".
func (p *Printer) Count(content string, counter *int, level int) {
	prefix := strings.Repeat(Indent, max(level, 0))
	if counter != nil {
		prefix += fmt.Sprintf("[%d] ", *counter)
	}
	p.line(prefix + content)
}

// Println writes raw text followed by a newline
func (p *Printer) Println(text string) {
	p.line(text)
}

func (p *Printer) line(text string) {
	_, _ = fmt.Fprintln(p.Out, text)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
