package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects the renderer used by list and status.
type Format int

const (
	FormatAuto     Format = iota // terminal on a color tty, text otherwise
	FormatTerminal               // lipgloss list, glamour status
	FormatText                   // the "name\n  → target  (age)" layout
	FormatJSON                   // views encoded as indented JSON
)

// String returns the --format spelling of f.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat reads a --format value. Unknown values are INVALID_INPUT.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
			WithDetail("valid", []string{"auto", "term", "text", "json"})
	}
}

// DetectFormat resolves FormatAuto for output: NO_COLOR, a pipe or an ASCII
// color profile give text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}
