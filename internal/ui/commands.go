package ui

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfhq/shelf/internal/booktrack"
	"github.com/shelfhq/shelf/internal/cleanup"
	"github.com/shelfhq/shelf/internal/storage"
)

type errMsg struct{ err error }

type loggedInMsg struct{}

type registeredMsg struct{ message string }

type booksRefreshedMsg struct{}

type bookSavedMsg struct{}

type bookDeletedMsg struct{ id string }

type bookFetchedMsg struct{ book booktrack.Book }

type profileMsg struct{ profile booktrack.Profile }

type profileSavedMsg struct{ profile booktrack.Profile }

type loggedOutMsg struct{}

// loginCmd signs in, stores the session credential, and records the
// user entry for the session.
func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.client.Login(m.ctx, username, password)
		if err != nil {
			return errMsg{err}
		}
		if err := m.sessions.Set(token); err != nil {
			return errMsg{err}
		}
		if m.store != nil {
			if encoded, err := json.Marshal(map[string]string{"username": username}); err == nil {
				_ = m.store.Set(storage.KeyUserData, encoded)
			}
		}
		return loggedInMsg{}
	}
}

func (m Model) registerCmd(username, password, email string) tea.Cmd {
	return func() tea.Msg {
		message, err := m.client.Register(m.ctx, username, password, email)
		if err != nil {
			return errMsg{err}
		}
		if message == "" {
			message = "registration successful"
		}
		return registeredMsg{message: message}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.library.Refresh(m.ctx, booktrack.ListQuery{}); err != nil {
			return errMsg{err}
		}
		return booksRefreshedMsg{}
	}
}

// saveBookCmd creates when editingID is empty and updates otherwise.
func (m Model) saveBookCmd(editingID string, draft booktrack.BookDraft) tea.Cmd {
	return func() tea.Msg {
		var err error
		if editingID == "" {
			_, err = m.library.Create(m.ctx, draft)
		} else {
			_, err = m.library.Update(m.ctx, editingID, draft)
		}
		if err != nil {
			return errMsg{err}
		}
		return bookSavedMsg{}
	}
}

func (m Model) deleteBookCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.library.Delete(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return bookDeletedMsg{id: id}
	}
}

// fetchBookCmd seeds the edit form from the server copy; the list is
// not touched.
func (m Model) fetchBookCmd(id string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.Get(m.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return bookFetchedMsg{book: book}
	}
}

func (m Model) profileCmd() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.client.Profile(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		if m.store != nil {
			if encoded, err := json.Marshal(profile); err == nil {
				_ = m.store.Set(storage.KeyProfileCache, encoded)
			}
		}
		return profileMsg{profile: profile}
	}
}

func (m Model) saveProfileCmd(profile booktrack.Profile) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.client.UpdateProfile(m.ctx, profile)
		if err != nil {
			return errMsg{err}
		}
		if m.store != nil {
			if encoded, err := json.Marshal(saved); err == nil {
				_ = m.store.Set(storage.KeyProfileCache, encoded)
			}
		}
		return profileSavedMsg{profile: saved}
	}
}

// logoutCmd runs the full cleanup protocol. A failed cleanup surfaces
// as an error and the session stays live.
func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		if err := cleanup.Perform(m.sessions, m.store); err != nil {
			return errMsg{err}
		}
		return loggedOutMsg{}
	}
}
