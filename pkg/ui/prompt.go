package ui

import (
	"io"

	"github.com/pterm/pterm"
)

// Confirm asks a yes/no question, defaulting to no.
func Confirm(question string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
}

// Success prints a success line to w.
func Success(w io.Writer, msg string) {
	pterm.Success.WithWriter(w).Println(msg)
}

// Warning prints a warning line to w.
func Warning(w io.Writer, msg string) {
	pterm.Warning.WithWriter(w).Println(msg)
}
