package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/tasklist/internal/domain"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatText  = "text"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// maxListTitleWidth is the display width titles are cut to in list tables.
const maxListTitleWidth = 60

// defaultMarkdownWidth is used when the terminal width cannot be determined.
const defaultMarkdownWidth = 80

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// checkFormat returns an error unless format is one of allowed.
func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q (want one of: %s)", format, strings.Join(allowed, ", "))
}

// statusLabel returns the styled state column for a task.
func statusLabel(task *domain.Task) string {
	if task.Completed {
		return doneStyle.Render("done")
	}
	return pendingStyle.Render("pending")
}

// printTaskList prints tasks as an aligned table.
func printTaskList(w io.Writer, tasks []*domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTITLE")

	// Rows
	for _, task := range tasks {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			task.ID,
			statusLabel(task),
			task.CreatedAt.Format("2006-01-02 15:04"),
			truncate.StringWithTail(task.Title, maxListTitleWidth, "…"),
		)
	}
}

// printStats prints collection statistics in the table layout.
func printStats(w io.Writer, stats domain.Statistics) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintf(tw, "Total:\t%d\n", stats.Total)
	_, _ = fmt.Fprintf(tw, "Completed:\t%d\n", stats.Completed)
	_, _ = fmt.Fprintf(tw, "Pending:\t%d\n", stats.Pending)
	_, _ = fmt.Fprintf(tw, "Completion rate:\t%.1f%%\n", stats.CompletionRate)
}

// writeJSON writes v as indented JSON without HTML escaping.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTasksJSON writes tasks as a JSON array, "[]" when empty.
func writeTasksJSON(w io.Writer, tasks []*domain.Task) error {
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return writeJSON(w, tasks)
}

// taskYAML mirrors the JSON record layout for YAML output.
// Fields are in output order.
type taskYAML struct {
	ID          int     `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Completed   bool    `yaml:"completed"`
	CreatedAt   string  `yaml:"created_at"`
	CompletedAt *string `yaml:"completed_at"`
}

func toTaskYAML(task *domain.Task) taskYAML {
	v := taskYAML{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   domain.FormatTimestamp(task.CreatedAt),
	}
	if task.CompletedAt != nil {
		s := domain.FormatTimestamp(*task.CompletedAt)
		v.CompletedAt = &s
	}
	return v
}

// writeYAML writes v as a YAML document with 2-space indentation.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// writeTasksYAML writes tasks as a YAML sequence.
func writeTasksYAML(w io.Writer, tasks []*domain.Task) error {
	out := make([]taskYAML, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskYAML(t)
	}
	return writeYAML(w, out)
}

// printTaskDetails prints a single task in human-readable form.
// The description is rendered as Markdown when w is a terminal.
func printTaskDetails(w io.Writer, task *domain.Task) {
	// Header
	_, _ = fmt.Fprintf(w, "# Task %d: %s\n\n", task.ID, task.Title)

	// Description
	if task.Description != "" {
		desc := task.Description
		if width, ok := terminalWidth(w); ok {
			desc = renderMarkdown(desc, width)
		}
		_, _ = fmt.Fprintf(w, "%s\n\n", strings.TrimRight(desc, "\n"))
	}

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", statusLabel(task))
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
	}
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultMarkdownWidth, true
	}
	return width, true
}

// renderMarkdown formats Markdown for the terminal, falling back to the
// input when rendering fails.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
