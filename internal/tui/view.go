package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
)

const (
	minTitleWidth     = 20
	defaultTitleWidth = 60
	rowOverhead       = 12 // cursor, mark, id and padding
)

// View renders the model.
func (m *Model) View() string {
	if m.mode == ModeHelp {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewTaskList())
	b.WriteString("\n")

	switch m.mode {
	case ModeInputTitle:
		b.WriteString(m.styles.Input.Render(m.titleInput.View()))
		b.WriteString("\n")
	case ModeConfirm:
		b.WriteString(m.styles.Confirm.Render(fmt.Sprintf("Delete task #%d? (y/n)", m.confirmTaskID)))
		b.WriteString("\n")
	}

	if line := m.viewStatusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) viewHeader() string {
	header := m.styles.Header.Render(fmt.Sprintf("Tasks [%s]", m.filter))
	stats := m.styles.Stats.Render(fmt.Sprintf("%d total, %d done, %d pending (%.1f%%)",
		m.stats.Total, m.stats.Completed, m.stats.Pending, m.stats.CompletionRate))
	return header + "  " + stats
}

func (m *Model) viewTaskList() string {
	if len(m.tasks) == 0 {
		return m.styles.Empty.Render("No tasks.") + "\n"
	}

	width := m.titleWidth()
	var b strings.Builder
	for i, task := range m.tasks {
		selected := i == m.cursor

		cursor := "  "
		if selected {
			cursor = m.styles.Cursor.Render("> ")
		}

		mark := m.styles.MarkPending.Render("○")
		if task.Completed {
			mark = m.styles.MarkDone.Render("✓")
		}

		title := truncate.StringWithTail(task.Title, uint(width), "…")
		switch {
		case task.Completed:
			title = m.styles.TitleDone.Render(title)
		case selected:
			title = m.styles.TitleSelected.Render(title)
		default:
			title = m.styles.TitleNormal.Render(title)
		}

		fmt.Fprintf(&b, "%s%s %4d  %s\n", cursor, mark, task.ID, title)
	}
	return b.String()
}

func (m *Model) viewStatusLine() string {
	if m.err != nil {
		return m.styles.Error.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return m.styles.Status.Render(m.status)
	}
	return ""
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Keybindings"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Stats.Render("Press any key to close"))
	return b.String()
}

// titleWidth returns the column width available for task titles.
func (m *Model) titleWidth() int {
	if m.width == 0 {
		return defaultTitleWidth
	}
	return max(m.width-rowOverhead, minTitleWidth)
}
