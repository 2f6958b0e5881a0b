package tui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	Header        lipgloss.Style
	Stats         lipgloss.Style
	Cursor        lipgloss.Style
	TitleNormal   lipgloss.Style
	TitleSelected lipgloss.Style
	TitleDone     lipgloss.Style
	MarkDone      lipgloss.Style
	MarkPending   lipgloss.Style
	Input         lipgloss.Style
	Confirm       lipgloss.Style
	Status        lipgloss.Style
	Error         lipgloss.Style
	Empty         lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		Stats:         lipgloss.NewStyle().Foreground(Colors.Muted),
		Cursor:        lipgloss.NewStyle().Foreground(Colors.TitleSelected).Bold(true),
		TitleNormal:   lipgloss.NewStyle().Foreground(Colors.TitleNormal),
		TitleSelected: lipgloss.NewStyle().Foreground(Colors.TitleSelected).Bold(true),
		TitleDone:     lipgloss.NewStyle().Foreground(Colors.Muted).Strikethrough(true),
		MarkDone:      lipgloss.NewStyle().Foreground(Colors.Success),
		MarkPending:   lipgloss.NewStyle().Foreground(Colors.Warning),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),
		Confirm: lipgloss.NewStyle().Foreground(Colors.Warning).Bold(true),
		Status:  lipgloss.NewStyle().Foreground(Colors.Success),
		Error:   lipgloss.NewStyle().Foreground(Colors.Error),
		Empty:   lipgloss.NewStyle().Foreground(Colors.Muted).Italic(true),
	}
}
