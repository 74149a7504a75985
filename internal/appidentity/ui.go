package appidentity

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// styled renders s with the style when stderr is a terminal. TAP and
// suite documents on stdout are never styled.
func styled(style lipgloss.Style, s string) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return s
	}
	return style.Render(s)
}
