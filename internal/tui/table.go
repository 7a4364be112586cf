package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"yttext/internal/captionfmt"
	"yttext/internal/youtube"
)

type tablePage struct {
	items []youtube.Caption
	table *table.Table

	ready       bool
	cursor      int
	currentPage int
	totalPages  int
	tableWidth  int
	startWidth  int
	durWidth    int
	textWidth   int
	pageSize    int
}

func TablePage(items []youtube.Caption, cursor int, pageSize int, currentPage int) tablePage {
	m := tablePage{
		items:       items,
		cursor:      cursor,
		pageSize:    max(1, pageSize),
		currentPage: currentPage,
	}
	m.totalPages = (len(items) + m.pageSize - 1) / m.pageSize
	return m
}

func (m tablePage) Init() tea.Cmd {
	return nil
}

// selected returns the index of the highlighted caption in items.
func (m tablePage) selected() int {
	return m.currentPage*m.pageSize + m.cursor
}

func (m tablePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "enter":
			if idx := m.selected(); idx < len(m.items) {
				return m, func() tea.Msg { return goToDetailMsg{index: idx} }
			}
			return m, nil
		case "2", "/":
			return m, func() tea.Msg { return goToSearchMsg{} }
		case "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.currentPage > 0 {
				m.currentPage--
				m.cursor = m.pageSize - 1
			}
			m.updateTableRows()
			return m, nil
		case "j":
			itemsOnCurrentPage := min(m.pageSize, len(m.items)-m.currentPage*m.pageSize)
			if m.cursor < itemsOnCurrentPage-1 {
				m.cursor++
			} else if m.currentPage < m.totalPages-1 {
				m.currentPage++
				m.cursor = 0
			}
			m.updateTableRows()
			return m, nil
		case "g":
			m.currentPage = 0
			m.cursor = 0
			m.updateTableRows()
			return m, nil
		case "G":
			m.jumpTo(len(m.items) - 1)
			m.updateTableRows()
			return m, nil
		case "l":
			if m.currentPage < m.totalPages-1 {
				m.currentPage++
				m.cursor = 0
				m.updateTableRows()
				return m, tea.ClearScreen // border rendering breaks without a full redraw
			}
			return m, nil
		case "h":
			if m.currentPage > 0 {
				m.currentPage--
				m.cursor = 0
				m.updateTableRows()
				return m, tea.ClearScreen
			}
			return m, nil
		}
	case jumpToCaptionMsg:
		m.jumpTo(msg.index)
		m.updateTableRows()
		return m, tea.ClearScreen
	case tea.WindowSizeMsg:
		m.tableWidth = msg.Width - 2
		m.configureTable(msg.Width, msg.Height-4)
		m.ready = true

		return m, tea.ClearScreen
	}

	return m, nil
}

func (m *tablePage) jumpTo(index int) {
	if index < 0 || index >= len(m.items) {
		return
	}
	m.currentPage = index / m.pageSize
	m.cursor = index % m.pageSize
}

func (m tablePage) View() string {
	if !m.ready {
		return "...Loading"
	}

	if len(m.items) == 0 {
		return "No captions to show"
	}

	pageInfo := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(fmt.Sprintf("Page %d/%d • %d captions", m.currentPage+1, max(1, m.totalPages), len(m.items)))

	help := helpBar([]string{
		"j/k: move",
		"l/h: page",
		"g/G: first/last",
		"Space: view transcript",
		"/: search",
		"q: quit",
	})

	return pageLayout(lipgloss.JoinVertical(lipgloss.Left, renderMenu(0, m.tableWidth), m.table.Render(), pageInfo, help))
}

func (m *tablePage) updateTableRows() {
	if len(m.items) == 0 {
		return
	}

	headers := []string{
		truncateString("Start", m.startWidth),
		truncateString("Duration", m.durWidth),
		truncateString("Text", m.textWidth),
	}

	var rows [][]string
	startIdx := m.currentPage * m.pageSize
	endIdx := min(startIdx+m.pageSize, len(m.items))

	for i := startIdx; i < endIdx; i++ {
		c := m.items[i]
		rows = append(rows, []string{
			captionfmt.Timestamp(c.Start),
			fmt.Sprintf("%.2fs", c.Dur),
			truncateString(strings.ReplaceAll(c.Text, "\n", " "), m.textWidth),
		})
	}

	if len(rows) > 0 {
		m.cursor = min(max(m.cursor, 0), len(rows)-1)
	}

	borderStyle := lipgloss.NewStyle().Foreground(darkBlue())
	headerStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(darkBlue()).
		Align(lipgloss.Center)
	cursor := m.cursor

	m.table = table.New().
		Width(m.tableWidth).
		Border(lipgloss.ThickBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle
			}
			if row == cursor {
				return lipgloss.NewStyle().
					Padding(0, 1).
					Background(lightBlue()).
					Foreground(lipgloss.Color("0"))
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// configureTable sizes the page and the columns to the terminal.
func (m *tablePage) configureTable(width, height int) {
	if len(m.items) == 0 {
		return
	}

	selected := min(m.selected(), len(m.items)-1)

	// header, borders and the page line take six rows
	m.pageSize = max(5, height-6)
	m.totalPages = (len(m.items) + m.pageSize - 1) / m.pageSize
	m.jumpTo(selected)

	m.startWidth = 9
	m.durWidth = 9
	// 4 for borders, 3 of padding per column
	borderPaddingWidth := 4 + 3*3
	m.textWidth = max(20, width-m.startWidth-m.durWidth-borderPaddingWidth)

	m.updateTableRows()
}
