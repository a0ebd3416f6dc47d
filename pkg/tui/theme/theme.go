package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Picker PickerTheme
	Panel  PanelTheme
}

// FooterTheme groups styles used by the bottom status/help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PickerTheme styles the type-ahead picker.
type PickerTheme struct {
	Frame        lipgloss.Style
	FrameBlurred lipgloss.Style
	Label        lipgloss.Style
	Repository   lipgloss.Style
	Current      lipgloss.Style
	Candidate    lipgloss.Style
	Highlight    lipgloss.Style
	Synonym      lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")
	errColor := lipgloss.Color("#FF5F5F")

	candidate := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(muted),
			Error:  lipgloss.NewStyle().Foreground(errColor),
		},
		Picker: PickerTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			FrameBlurred: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			Label:      lipgloss.NewStyle().Foreground(muted),
			Repository: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Current:    lipgloss.NewStyle().Foreground(accent).Bold(true),
			Candidate:  candidate,
			Highlight:  candidate.Reverse(true),
			Synonym:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
			Status:     lipgloss.NewStyle().Foreground(muted).Italic(true),
			Error:      lipgloss.NewStyle().Foreground(errColor),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}
