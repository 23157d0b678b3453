package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/ui/styles"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

type terminalRenderer struct {
	output io.Writer
	styles *styles.Registry

	// glamourStyle is a glamour standard style name; empty means auto.
	glamourStyle string
}

func newTerminalRenderer(w io.Writer) *terminalRenderer {
	return &terminalRenderer{output: w, styles: styles.Default()}
}

func (r *terminalRenderer) RenderList(view ListView) error {
	if len(view.Links) == 0 {
		_, err := fmt.Fprintln(r.output, r.styles.Render("Muted", "No tracked files."))
		return err
	}

	var b strings.Builder
	for _, link := range view.Links {
		b.WriteString(r.styles.Render("Name", link.Name))
		if link.Broken {
			b.WriteString(" " + r.styles.Render("Broken", "[broken]"))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  → %s  %s\n",
			r.styles.Render("Target", paths.ContractHome(link.Target)),
			r.styles.Render("Age", "("+RelativeAge(link.Timestamp, view.Now)+")"))
	}
	fmt.Fprintf(&b, "\n%s\n", r.styles.Render("Header", fmt.Sprintf("%d file(s)", len(view.Links))))

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderStatus renders the status as markdown through glamour. Plain text is
// written when rendering fails.
func (r *terminalRenderer) RenderStatus(view StatusView) error {
	markdown := StatusMarkdown(view)

	options := []glamour.TermRendererOption{glamour.WithWordWrap(0)}
	if r.glamourStyle != "" {
		options = append(options, glamour.WithStandardStyle(r.glamourStyle))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		_, werr := io.WriteString(r.output, plainStatus(view))
		return werr
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		_, werr := io.WriteString(r.output, plainStatus(view))
		return werr
	}
	_, err = io.WriteString(r.output, rendered)
	return err
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	pterm.Info.WithWriter(r.output).Println(msg)
	return nil
}

func (r *terminalRenderer) RenderError(err error) error {
	code := errors.GetErrorCode(err)
	if code != errors.ErrUnknown {
		pterm.Error.WithWriter(r.output).Printfln("%s %s", pterm.Error.MessageStyle.Sprint(string(code)), err.Error())
		return nil
	}
	pterm.Error.WithWriter(r.output).Println(err.Error())
	return nil
}

// StatusMarkdown renders the status view as a markdown document.
func StatusMarkdown(view StatusView) string {
	var b strings.Builder
	b.WriteString("# recent-work\n\n")
	fmt.Fprintf(&b, "- **Service:** %s\n", serviceLine(view.Service))
	fmt.Fprintf(&b, "- **Tracked files:** %d / %d max\n", view.Summary.Tracked, view.Summary.MaxFiles)
	if view.Summary.Broken > 0 {
		fmt.Fprintf(&b, "- **Broken links:** %d\n", view.Summary.Broken)
	}
	fmt.Fprintf(&b, "- **Max age:** %d hours\n", view.MaxAgeHours)

	b.WriteString("\n## Watched directories\n\n")
	if len(view.WatchDirs) == 0 {
		b.WriteString("_none found_\n")
	}
	for _, dir := range view.WatchDirs {
		fmt.Fprintf(&b, "- %s `%s`\n", existsMark(dir.Exists), paths.ContractHome(dir.Path))
	}

	b.WriteString("\n## Locations\n\n")
	fmt.Fprintf(&b, "- **Output:** `%s`\n", paths.ContractHome(view.OutputDir))
	if view.ConfigFile != "" {
		fmt.Fprintf(&b, "- **Config:** `%s`\n", paths.ContractHome(view.ConfigFile))
	}
	return b.String()
}
