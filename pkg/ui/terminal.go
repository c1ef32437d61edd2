package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Console writes the human-readable side of a fetch session: banner, prompt,
// one status line per URL and the completion line.
type Console struct {
	out   io.Writer
	color bool

	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
}

// NewConsole creates a console writing to out. Colour is only applied when
// enabled and out supports it.
func NewConsole(out io.Writer, color bool) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:     out,
		color:   color,
		info:    r.NewStyle().Foreground(lipgloss.Color("6")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		dim:     r.NewStyle().Faint(true),
	}
}

func (c *Console) render(style lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return style.Render(text)
}

func position(index, total int) string {
	return fmt.Sprintf("[%d/%d]", index, total)
}

// Banner prints the greeting and input instructions
func (c *Console) Banner() {
	fmt.Fprintln(c.out, c.render(c.info, "Ubuntu Image Fetcher: connecting people through shared images."))
	fmt.Fprintln(c.out, "Enter multiple image URLs (one per line). Press Enter on a blank line to finish:")
	fmt.Fprintln(c.out)
}

// Prompt prints the input marker for the next URL
func (c *Console) Prompt() {
	fmt.Fprint(c.out, c.render(c.dim, "> "))
}

// NoURLs reports that collection produced nothing to fetch
func (c *Console) NoURLs() {
	fmt.Fprintln(c.out, "No URLs provided. Exiting respectfully.")
}

// Connecting announces the URL about to be processed
func (c *Console) Connecting(index, total int, url string) {
	fmt.Fprintf(c.out, "\n%s Connecting to %s ...\n", c.render(c.info, position(index, total)), url)
}

// Saved reports an image written to path
func (c *Console) Saved(index, total int, path string) {
	fmt.Fprintf(c.out, "%s %s\n", position(index, total), c.render(c.success, "Saved: "+path))
}

// Skipped reports a URL passed over by a validation step
func (c *Console) Skipped(index, total int, reason string) {
	fmt.Fprintf(c.out, "%s %s\n", position(index, total), c.render(c.warning, reason))
}

// Failed reports a URL whose fetch or write failed
func (c *Console) Failed(index, total int, reason string) {
	fmt.Fprintf(c.out, "%s %s\n", position(index, total), c.render(c.failure, reason))
}

// Complete prints the closing banner
func (c *Console) Complete(outputDir string) {
	fmt.Fprintf(c.out, "\n%s\n", c.render(c.success, fmt.Sprintf("All done! Images are organized in the '%s' folder.", outputDir)))
}

// PrintError prints an error message in red
func (c *Console) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(c.out, c.render(c.failure, msg))
}

// PrintInfo prints a label and value pair
func (c *Console) PrintInfo(label string, value string) {
	fmt.Fprintf(c.out, "%s: %s\n", c.render(c.info, label), c.render(c.warning, value))
}
