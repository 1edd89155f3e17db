package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shelfhq/shelf/internal/booktrack"
)

// Field order per screen. The book form mirrors the create/update wire
// payload field for field.
const (
	loginUsername = 0
	loginPassword = 1

	registerUsername = 0
	registerEmail    = 1
	registerPassword = 2

	formTitle       = 0
	formAuthor      = 1
	formGenre       = 2
	formDescription = 3
	formPages       = 4

	profileUsername = 0
	profileEmail    = 1
)

func newInput(placeholder string, secret bool) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 200
	input.Width = 40
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	return input
}

// screenInputs builds the input set for the current screen.
func (m Model) screenInputs() []textinput.Model {
	switch m.screen {
	case screenLogin:
		return []textinput.Model{newInput("username", false), newInput("password", true)}
	case screenRegister:
		return []textinput.Model{newInput("username", false), newInput("email", false), newInput("password", true)}
	case screenForm:
		return []textinput.Model{
			newInput("title", false),
			newInput("author", false),
			newInput("genre", false),
			newInput("description", false),
			newInput("pages", false),
		}
	case screenProfile:
		return []textinput.Model{newInput("username", false), newInput("email", false)}
	}
	return nil
}

func (m *Model) seedBookForm(book booktrack.Book) {
	m.inputs[formTitle].SetValue(book.Title)
	m.inputs[formAuthor].SetValue(book.Author)
	m.inputs[formGenre].SetValue(book.Genre)
	m.inputs[formDescription].SetValue(book.Description)
	m.inputs[formPages].SetValue(strconv.Itoa(book.PageCount))
}

func (m *Model) seedProfileForm(profile booktrack.Profile) {
	m.inputs[profileUsername].SetValue(profile.Username)
	m.inputs[profileEmail].SetValue(profile.Email)
}

func (m *Model) cycleFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		if i == m.focusIdx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Register):
		m.switchTo(screenRegister)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.busy = true
		// Passwords keep their whitespace; only the username is trimmed.
		return m, m.loginCmd(fieldValue(m.inputs, loginUsername), m.inputs[loginPassword].Value())
	}
	return m.updateInputs(msg)
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Login), key.Matches(msg, m.keys.Escape):
		m.switchTo(screenLogin)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.busy = true
		return m, m.registerCmd(
			fieldValue(m.inputs, registerUsername),
			m.inputs[registerPassword].Value(),
			fieldValue(m.inputs, registerEmail),
		)
	}
	return m.updateInputs(msg)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.switchTo(screenBooks)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		draft := booktrack.BookDraft{
			Title:       fieldValue(m.inputs, formTitle),
			Author:      fieldValue(m.inputs, formAuthor),
			Genre:       fieldValue(m.inputs, formGenre),
			Description: fieldValue(m.inputs, formDescription),
			PageCount:   pageCountFromInput(m.inputs[formPages].Value()),
		}
		if draft.Title == "" || draft.Author == "" {
			m.setError(booktrack.ValidationError(map[string]string{
				"author": "author is required",
				"title":  "title is required",
			}))
			return m, nil
		}
		m.busy = true
		return m, m.saveBookCmd(m.editingID, draft)
	}
	return m.updateInputs(msg)
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.switchTo(screenBooks)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.busy = true
		return m, m.saveProfileCmd(booktrack.Profile{
			Username: fieldValue(m.inputs, profileUsername),
			Email:    fieldValue(m.inputs, profileEmail),
		})
	}
	return m.updateInputs(msg)
}

func (m Model) viewLogin() string {
	return m.renderForm("sign in",
		m.helpLine(m.keys.Confirm, m.keys.Register, m.keys.Quit))
}

func (m Model) viewRegister() string {
	return m.renderForm("create account",
		m.helpLine(m.keys.Confirm, m.keys.Login, m.keys.Quit))
}

func (m Model) viewForm() string {
	title := "add book"
	if m.editingID != "" {
		title = "edit book"
	}
	return m.renderForm(title,
		m.helpLine(m.keys.Confirm, m.keys.Escape, m.keys.Quit))
}

func (m Model) viewProfile() string {
	return m.renderForm("profile",
		m.helpLine(m.keys.Confirm, m.keys.Escape, m.keys.Quit))
}

func (m Model) renderForm(title, help string) string {
	rows := make([]string, 0, len(m.inputs)+1)
	rows = append(rows, m.styles.Accent.Render(title))
	for i := range m.inputs {
		rows = append(rows, m.inputs[i].View())
	}
	form := m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.JoinVertical(lipgloss.Left, form, help)
}

