package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Printer writes human-facing bootstrap output, styled when the destination
// is an interactive terminal and plain otherwise.
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter returns a Printer for stdout with automatic TTY detection.
func NewPrinter() *Printer {
	return &Printer{
		out:    os.Stdout,
		styled: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// NewPrinterTo returns a Printer writing to w without styling. Used in tests.
func NewPrinterTo(w io.Writer) *Printer {
	return &Printer{out: w}
}

// Section prints a bar-delimited section title.
func (p *Printer) Section(title string) {
	bar := strings.Repeat("=", 64)
	text := fmt.Sprintf("%s\n%s\n%s", bar, title, bar)
	if p.styled {
		text = sectionStyle.Render(text)
	}
	fmt.Fprintln(p.out, text)
}

// Successf prints a success line.
func (p *Printer) Successf(format string, v ...interface{}) {
	p.line(checkMark, successStyle, format, v...)
}

// Failf prints a failure line.
func (p *Printer) Failf(format string, v ...interface{}) {
	p.line(crossMark, failStyle, format, v...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, v ...interface{}) {
	p.line(warnMark, warnStyle, format, v...)
}

// KeyValue prints an aligned key/value pair for the access banner.
func (p *Printer) KeyValue(key, value string) {
	k := fmt.Sprintf("%-16s", key)
	if p.styled {
		k = dimStyle.Render(k)
	}
	fmt.Fprintf(p.out, "%s %s\n", k, value)
}

func (p *Printer) line(mark string, style interface{ Render(...string) string }, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if p.styled {
		fmt.Fprintf(p.out, "%s %s\n", style.Render(mark), msg)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", mark, msg)
}
