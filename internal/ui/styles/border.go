package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPanel draws content inside a rounded border of the given outer size,
// with leftTitle and rightTitle embedded in the top edge. Pass "" to omit a
// title. accent colors the titles and, when focused, the border.
func RenderPanel(content, leftTitle, rightTitle string, width, height int, focused bool, accent lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	title := lipgloss.NewStyle().Foreground(accent).Bold(true)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	body := lipgloss.NewStyle().Width(inner).Height(rows).MaxHeight(rows).Render(content)
	lines := strings.Split(body, "\n")

	var b strings.Builder
	b.WriteString(topBorder(leftTitle, rightTitle, inner, border, title))
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString("\n")
		b.WriteString(border.Render(borderVertical) + line + border.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(border.Render(borderBottomLeft + strings.Repeat(borderHorizontal, inner) + borderBottomRight))
	return b.String()
}

// topBorder renders ╭─ Left ──── Right ─╮, dropping the right title first and
// then truncating the left one when inner is too narrow.
func topBorder(left, right string, inner int, border, title lipgloss.Style) string {
	plain := func() string {
		return border.Render(borderTopLeft + strings.Repeat(borderHorizontal, inner) + borderTopRight)
	}

	lw, rw := lipgloss.Width(left), lipgloss.Width(right)
	need := 0
	if left != "" {
		need += lw + 3 // "─ " + left + " "
	}
	if right != "" {
		need += rw + 3 // " " + right + " ─"
	}
	if need+1 > inner && right != "" {
		right, rw = "", 0
		need = lw + 3
	}
	if left != "" && need+1 > inner {
		left = TruncateString(left, inner-4)
		if left == "" {
			return plain()
		}
		lw = lipgloss.Width(left)
		need = lw + 3
	}
	if left == "" && right == "" {
		return plain()
	}

	var b strings.Builder
	b.WriteString(border.Render(borderTopLeft))
	if left != "" {
		b.WriteString(border.Render(borderHorizontal+" ") + title.Render(left) + border.Render(" "))
	}
	b.WriteString(border.Render(strings.Repeat(borderHorizontal, max(inner-need, 1))))
	if right != "" {
		b.WriteString(border.Render(" ") + title.Render(right) + border.Render(" "+borderHorizontal))
	}
	b.WriteString(border.Render(borderTopRight))
	return b.String()
}

// TruncateString shortens s to at most maxWidth cells, ending in "..." when
// anything was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
