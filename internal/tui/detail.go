package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"yttext/internal/captionfmt"
)

type detailPage struct {
	width      int
	height     int
	viewport   viewport.Model
	transcript *Transcript
	selected   int
}

func (m detailPage) Init() tea.Cmd {
	return nil
}

func (m detailPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, func() tea.Msg { return goToTableMsg{} }
		case "k":
			m.viewport.ScrollUp(1)
			return m, nil
		case "j":
			m.viewport.ScrollDown(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.height = msg.Height - 4
		if m.selected >= 0 {
			m.viewport = setupViewport(m.width, m.height, m.transcript, m.selected)
		}

		return m, nil
	case goToDetailMsg:
		m.selected = msg.index
		m.viewport = setupViewport(m.width, m.height, m.transcript, m.selected)

		return m, nil
	}

	return m, nil
}

func (m detailPage) View() string {
	if m.transcript == nil || m.selected < 0 || m.selected >= len(m.transcript.Captions) {
		return "No caption selected"
	}
	t := m.transcript
	c := t.Captions[m.selected]

	titleStyle := lipgloss.NewStyle().
		Foreground(darkBlue()).
		Bold(true).
		MarginBottom(1).
		Width(max(20, m.width-8))

	urlStyle := lipgloss.NewStyle().
		Foreground(lightBlue()).
		Italic(true).
		MarginBottom(1)

	metadataStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		MarginBottom(1)

	title := titleStyle.Render(fmt.Sprintf("%s [%s]", t.VideoID, t.Lang))
	url := urlStyle.Render("URL: " + t.URL)
	metadata := metadataStyle.Render(fmt.Sprintf("Caption %d of %d • %s → %s",
		m.selected+1, len(t.Captions), captionfmt.Timestamp(c.Start), captionfmt.Timestamp(c.End())))

	scrollPercent := min(max(m.viewport.ScrollPercent(), 0), 1)
	scroll := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Render(fmt.Sprintf("Scroll: %d%%", int(scrollPercent*100)))

	help := lipgloss.NewStyle().MarginTop(1).Render(helpBar([]string{
		"j/k: scroll",
		"g/G: top/bottom",
		"esc/q: back",
	}))

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		url,
		metadata,
		m.viewport.View(),
		scroll,
		help)

	border := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(darkBlue())

	return pageLayout(border.Render(content))
}

func setupViewport(width, height int, t *Transcript, selected int) viewport.Model {
	contentWidth := max(20, width)
	// title, URL, metadata, scroll and help lines
	viewportHeight := max(5, height-10)

	vp := viewport.New(contentWidth, viewportHeight)
	if t != nil {
		vp.SetContent(renderMarkdown(transcriptMarkdown(t, selected), contentWidth))
	}
	return vp
}

// transcriptMarkdown lays the transcript out one timestamped paragraph per
// caption, with the selected caption emphasised.
func transcriptMarkdown(t *Transcript, selected int) string {
	var sb strings.Builder
	for i, c := range t.Captions {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		if i == selected {
			fmt.Fprintf(&sb, "**`%s` %s**\n\n", captionfmt.Timestamp(c.Start), text)
		} else {
			fmt.Fprintf(&sb, "`%s` %s\n\n", captionfmt.Timestamp(c.Start), text)
		}
	}
	return sb.String()
}

func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return "No content available"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle("dark"),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
