package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridmap/internal/core"
)

// colorStyles maps screen color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorCorner:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorJoint:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	core.ColorWall:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	core.ColorHiddenWall: lipgloss.NewStyle().Foreground(lipgloss.Color("61")),
	core.ColorParty:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	core.ColorAnchor:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	core.ColorCursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	core.ColorErase:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	core.ColorStatus:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorError:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string. Adjacent cells
// of the same color share one style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
