package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label string
}

func lightBlue() lipgloss.Color {
	return lipgloss.Color("#87CEEB")
}

func darkBlue() lipgloss.Color {
	return lipgloss.Color("#4682B4")
}

func pageLayout(content string) string {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(content)
}

func renderMenu(activeItem int, width int) string {
	divider := strings.Repeat("─", max(0, width))

	items := []menuItem{
		{label: "Captions"},
		{label: "Search"},
	}

	styledItems := []string{}
	for index, item := range items {
		var style lipgloss.Style
		content := item.label + " [" + strconv.Itoa(index+1) + "]"
		if activeItem == index {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Underline(true)
		} else {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		}

		fullContent := style.Render(content)
		if index != len(items)-1 {
			fullContent = fullContent + " | "
		}

		styledItems = append(styledItems, fullContent)
	}

	menu := lipgloss.JoinHorizontal(lipgloss.Left, styledItems...)

	return lipgloss.JoinVertical(lipgloss.Left, menu, divider)
}

func helpBar(items []string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Render(strings.Join(items, " • "))
}

// truncateString cuts s to maxLen runes, marking the cut with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-3]) + "..."
}
