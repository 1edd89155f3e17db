package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.books)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Add):
		m.editingID = ""
		m.switchTo(screenForm)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if len(m.books) == 0 {
			return m, nil
		}
		m.busy = true
		return m, m.fetchBookCmd(m.books[m.selected].ID)

	case key.Matches(msg, m.keys.Delete):
		if len(m.books) == 0 {
			return m, nil
		}
		m.busy = true
		return m, m.deleteBookCmd(m.books[m.selected].ID)

	case key.Matches(msg, m.keys.Profile):
		m.busy = true
		return m, m.profileCmd()

	case key.Matches(msg, m.keys.Logout):
		m.busy = true
		return m, m.logoutCmd()
	}
	return m, nil
}

func (m Model) viewBooks() string {
	help := m.helpLine(m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Refresh, m.keys.Profile, m.keys.Logout)

	if len(m.books) == 0 {
		empty := m.styles.Muted.Render("no books yet — press a to add one")
		return lipgloss.JoinVertical(lipgloss.Left, m.styles.Box.Render(empty), help)
	}

	rows := make([]string, 0, len(m.books))
	for i, book := range m.books {
		line := fmt.Sprintf("%-30s %-20s %5dp", truncate(book.Title, 30), truncate(book.Author, 20), book.PageCount)
		if book.Genre != "" {
			line += "  " + m.styles.Muted.Render(book.Genre)
		}
		if i == m.selected {
			line = m.styles.Selected.Render("› " + line)
		} else {
			line = m.styles.Text.Render("  " + line)
		}
		rows = append(rows, line)
	}
	list := m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	count := m.styles.Muted.Render(fmt.Sprintf("%d books", len(m.books)))
	return lipgloss.JoinVertical(lipgloss.Left, list, count, help)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 1 {
		return "…"
	}
	return value[:max-1] + "…"
}
