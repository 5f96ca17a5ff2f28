package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jonwraymond/scriptexec/script"
)

var (
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// printer writes results, styled when stdout is a terminal.
type printer struct {
	out    io.Writer
	errOut io.Writer
	styled bool
}

func newPrinter() *printer {
	return &printer{
		out:    os.Stdout,
		errOut: os.Stderr,
		styled: term.IsTerminal(int(os.Stdout.Fd())), // #nosec G115 - file descriptors are small integers
	}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// result prints res and reports whether it was a failure.
func (p *printer) result(res script.Result) bool {
	switch r := res.(type) {
	case *script.Failure:
		fmt.Fprint(p.errOut, p.style(failureStyle, r.Message))
		return true
	case script.Value:
		fmt.Fprintln(p.out, p.style(valueStyle, script.FormatPayload(r.Payload)))
	}
	return false
}

func (p *printer) notice(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.style(noticeStyle, fmt.Sprintf(format, args...)))
}
