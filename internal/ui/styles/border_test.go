package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

var testAccent = lipgloss.Color("#10B981")

func TestRenderPanel_Basic(t *testing.T) {
	result := RenderPanel("content", "Nature", "", 20, 5, false, testAccent)

	for _, corner := range []string{"╭", "╮", "╰", "╯"} {
		require.Contains(t, result, corner)
	}
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 5, "1 top + 3 content + 1 bottom")
	require.Contains(t, lines[0], "Nature")
}

func TestRenderPanel_LinesHaveExactWidth(t *testing.T) {
	result := RenderPanel("Hi\nthere", "Title", "3/8", 24, 6, true, testAccent)

	for i, line := range strings.Split(result, "\n") {
		require.Equal(t, 24, lipgloss.Width(line), "line %d: %q", i, line)
	}
}

func TestRenderPanel_DualTitles(t *testing.T) {
	result := RenderPanel("content", "Left", "Right", 30, 5, false, testAccent)
	top := strings.Split(result, "\n")[0]

	require.Contains(t, top, "Left")
	require.Contains(t, top, "Right")
	require.True(t, strings.HasSuffix(top, "─╮"))
}

func TestRenderPanel_RightTitleDroppedWhenNarrow(t *testing.T) {
	result := RenderPanel("content", "Left", "Right", 14, 3, false, testAccent)
	top := strings.Split(result, "\n")[0]

	require.Contains(t, top, "Left")
	require.NotContains(t, top, "Right")
	require.Equal(t, 14, lipgloss.Width(top))
}

func TestRenderPanel_LongTitleTruncated(t *testing.T) {
	result := RenderPanel("content", "This Is A Very Long Title That Should Be Truncated", "", 20, 5, false, testAccent)
	top := strings.Split(result, "\n")[0]

	require.LessOrEqual(t, lipgloss.Width(top), 20)
	require.Contains(t, top, "...")
}

func TestRenderPanel_NoTitles(t *testing.T) {
	result := RenderPanel("content", "", "", 20, 5, false, testAccent)
	top := strings.Split(result, "\n")[0]

	require.Equal(t, "╭"+strings.Repeat("─", 18)+"╮", top)
}

func TestRenderPanel_TinySizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"minimal", 3, 3},
		{"narrow with title", 6, 3},
		{"below minimum", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderPanel("x", "T", "", tt.width, tt.height, false, testAccent)
			require.Contains(t, result, "╭")
			require.Contains(t, result, "╯")
			for i, line := range strings.Split(result, "\n") {
				require.LessOrEqual(t, lipgloss.Width(line), max(tt.width, 3), "line %d: %q", i, line)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello..."},
		{"very short", "Hello", 3, "..."},
		{"minimal", "Hello", 1, "."},
		{"zero", "Hello", 0, ""},
		{"wide runes fit", "風鈴", 4, "風鈴"},
		{"wide runes cut", "かき氷の音", 7, "かき..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			require.Equal(t, tt.want, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
		})
	}
}
