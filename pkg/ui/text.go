package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/paths"
)

type textRenderer struct {
	output io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{output: w}
}

func (r *textRenderer) RenderList(view ListView) error {
	_, err := io.WriteString(r.output, plainList(view))
	return err
}

func (r *textRenderer) RenderStatus(view StatusView) error {
	_, err := io.WriteString(r.output, plainStatus(view))
	return err
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %s\n", err)
	return werr
}

func plainList(view ListView) string {
	if len(view.Links) == 0 {
		return "No tracked files.\n"
	}
	var b strings.Builder
	for _, link := range view.Links {
		b.WriteString(link.Name)
		if link.Broken {
			b.WriteString(" [broken]")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  → %s  (%s)\n", link.Target, RelativeAge(link.Timestamp, view.Now))
	}
	fmt.Fprintf(&b, "\n%d file(s)\n", len(view.Links))
	return b.String()
}

func plainStatus(view StatusView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s\n", serviceLine(view.Service))
	fmt.Fprintf(&b, "Tracked files: %d / %d max\n", view.Summary.Tracked, view.Summary.MaxFiles)
	if view.Summary.Broken > 0 {
		fmt.Fprintf(&b, "Broken links: %d\n", view.Summary.Broken)
	}
	fmt.Fprintf(&b, "Max age: %d hours\n", view.MaxAgeHours)

	b.WriteString("\nWatched directories:\n")
	if len(view.WatchDirs) == 0 {
		b.WriteString("  (none found)\n")
	}
	for _, dir := range view.WatchDirs {
		fmt.Fprintf(&b, "  %s %s\n", existsMark(dir.Exists), paths.ContractHome(dir.Path))
	}

	fmt.Fprintf(&b, "\nOutput: %s\n", paths.ContractHome(view.OutputDir))
	if view.ConfigFile != "" {
		fmt.Fprintf(&b, "Config: %s\n", paths.ContractHome(view.ConfigFile))
	}
	return b.String()
}

func serviceLine(s ServiceView) string {
	if s.State == ServiceRunning && s.PID > 0 {
		return fmt.Sprintf("%s (pid %d)", s.State, s.PID)
	}
	return s.State
}

func existsMark(exists bool) string {
	if exists {
		return "✓"
	}
	return "✗"
}
