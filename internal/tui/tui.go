package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"yttext/internal/youtube"
)

type viewMode int

const (
	tableView viewMode = iota
	searchView
	detailView
)

// Navigation messages
type goToDetailMsg struct {
	index int
}
type goToSearchMsg struct{}
type goToTableMsg struct{}
type jumpToCaptionMsg struct {
	index int
}

// Transcript is what the browser displays.
type Transcript struct {
	VideoID  string
	Lang     string
	URL      string
	Captions []youtube.Caption
}

type rootPage struct {
	viewMode   viewMode
	detailPage detailPage
	tablePage  tablePage
	searchPage searchPage
	width      int
	height     int
	err        error
}

func newRootPage(t *Transcript) rootPage {
	return rootPage{
		tablePage:  TablePage(t.Captions, 0, 10, 0),
		searchPage: searchPage{captions: t.Captions},
		detailPage: detailPage{transcript: t, selected: -1},
	}
}

// Run opens the caption browser on an already fetched transcript.
func Run(ctx context.Context, t Transcript) error {
	if len(t.Captions) == 0 {
		return fmt.Errorf("no captions to browse for %s", t.VideoID)
	}

	p := tea.NewProgram(newRootPage(&t), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

func (m rootPage) Init() tea.Cmd {
	return nil
}

func (m rootPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.viewMode {
	case tableView:
		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
	case detailView:
		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
	case searchView:
		m.searchPage, cmd = update[searchPage](m.searchPage, msg)
	}

	switch msg := msg.(type) {
	case goToSearchMsg:
		m.viewMode = searchView
		m.searchPage, cmd = update[searchPage](m.searchPage, msg)
	case goToTableMsg:
		m.viewMode = tableView
	case jumpToCaptionMsg:
		m.viewMode = tableView
		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
	case goToDetailMsg:
		m.viewMode = detailView
		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
	case tea.WindowSizeMsg:
		var cmds []tea.Cmd

		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
		cmds = append(cmds, cmd)

		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
		cmds = append(cmds, cmd)

		m.searchPage, cmd = update[searchPage](m.searchPage, msg)
		cmds = append(cmds, cmd)

		m.width = msg.Width - 4
		m.height = msg.Height - 4

		return m, tea.Batch(cmds...)
	}

	return m, cmd
}

func (m rootPage) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}

	switch m.viewMode {
	case detailView:
		return m.detailPage.View()
	case searchView:
		return m.searchPage.View()
	case tableView:
		return m.tablePage.View()
	default:
		return "Unknown View"
	}
}

func update[T any](model tea.Model, msg tea.Msg) (T, tea.Cmd) {
	newModel, cmd := model.Update(msg)
	return newModel.(T), cmd
}
