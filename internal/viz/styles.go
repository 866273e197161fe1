package viz

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	trajStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	xNullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))

	yNullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	axisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Title renders a bold heading line.
func Title(s string) string { return titleStyle.Render(s) }

// Panel wraps content in a rounded border.
func Panel(s string) string { return panelStyle.Render(s) }

// StatusLine renders a success or failure message in the matching color.
func StatusLine(ok bool, msg string) string {
	if ok {
		return okStyle.Render(msg)
	}
	return errStyle.Render(msg)
}

// Label renders secondary text such as axis captions.
func Label(s string) string { return labelStyle.Render(s) }
