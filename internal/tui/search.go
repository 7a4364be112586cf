package tui

import (
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"yttext/internal/captionfmt"
	"yttext/internal/youtube"
)

const maxSearchResults = 10

type searchPage struct {
	width       int
	height      int
	captions    []youtube.Caption
	matches     []int
	cursor      int
	searchInput textinput.Model
}

func (m searchPage) Init() tea.Cmd {
	return nil
}

func (m searchPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if len(m.matches) > 0 {
				idx := m.matches[m.cursor]
				return m, func() tea.Msg { return jumpToCaptionMsg{index: idx} }
			}
			return m, nil
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < min(len(m.matches), maxSearchResults)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyTab:
			if !m.searchInput.Focused() {
				m.searchInput.Focus()
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.searchInput.Focused() {
				m.searchInput.Blur()
			} else {
				return m, tea.Quit
			}
		case "1":
			if !m.searchInput.Focused() {
				return m, func() tea.Msg { return goToTableMsg{} }
			}
			fallthrough
		default:
			updated, cmd := m.searchInput.Update(msg)
			m.searchInput = updated
			m.refresh()
			return m, cmd
		}
	case goToSearchMsg:
		if m.searchInput.Value() == "" {
			m.searchInput = initializeInput()
		}
		m.searchInput.Focus()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func initializeInput() textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "words spoken in the video"
	input.Width = 50

	return input
}

func (m *searchPage) refresh() {
	m.matches = filterCaptions(m.captions, m.searchInput.Value())
	m.cursor = 0
}

// filterCaptions returns the indices of the captions containing query, ignoring case.
// A blank query matches nothing.
func filterCaptions(captions []youtube.Caption, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []int
	for i, c := range captions {
		if strings.Contains(strings.ToLower(c.Text), query) {
			out = append(out, i)
		}
	}
	return out
}

func (m searchPage) View() string {
	instructions := lipgloss.NewStyle().
		MarginTop(min(m.height/6, 4)).
		MarginBottom(1).
		Render("Type to filter the captions of this video")

	borderColor := lipgloss.Color("8")
	if m.searchInput.Focused() {
		borderColor = lipgloss.Color("15")
	}

	input := lipgloss.NewStyle().
		Width(50).
		AlignHorizontal(lipgloss.Left).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.searchInput.View())

	var results []string
	textWidth := max(20, m.width-16)
	for i, idx := range m.matches {
		if i == maxSearchResults {
			results = append(results, lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
				Render(fmt.Sprintf("… %d more", len(m.matches)-maxSearchResults)))
			break
		}
		c := m.captions[idx]
		line := fmt.Sprintf("%8s  %s", captionfmt.Timestamp(c.Start), truncateString(c.Text, textWidth))
		style := lipgloss.NewStyle()
		if i == m.cursor {
			style = style.Background(lightBlue()).Foreground(lipgloss.Color("0"))
		}
		results = append(results, style.Render(line))
	}
	if len(results) == 0 && strings.TrimSpace(m.searchInput.Value()) != "" {
		results = append(results, lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("No caption matches"))
	}

	var help string
	if m.searchInput.Focused() {
		help = helpBar([]string{
			"Enter: jump to caption",
			"↑/↓: select",
			"Esc: unfocus search input",
		})
	} else {
		help = helpBar([]string{
			"1: go to captions",
			"Tab: focus search input",
			"Esc: quit yttext",
		})
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		renderMenu(1, m.width),
		instructions,
		input,
		lipgloss.JoinVertical(lipgloss.Left, results...),
		lipgloss.NewStyle().MarginTop(1).Render(help),
	)

	return pageLayout(content)
}
