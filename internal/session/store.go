// Package session manages the client-side collection of chat sessions.
//
// The collection is held in memory and written back wholesale on every
// mutation. Persistence is best-effort: a failed write is logged and the
// in-memory state stands, so two concurrent writers race last-write-wins.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GOHANX1234/Aibot/internal/domain"
	"github.com/google/uuid"
)

// Title derivation truncates the first user message at this many runes.
const titleMaxLen = 20

// Persister loads and saves the serialized session collection as a
// single unit.
type Persister interface {
	Load() ([]domain.ChatSession, error)
	Save(sessions []domain.ChatSession) error
}

// SessionUpdate carries partial fields for Update. Nil fields are left
// unchanged.
type SessionUpdate struct {
	Title    *string
	Model    *string
	Messages *[]domain.ChatMessage
}

// Store is the keyed session collection, ordered most-recent-first.
type Store struct {
	sessions []domain.ChatSession
	persist  Persister

	now   func() time.Time
	newID func() string
}

// New creates a Store backed by p. A load failure is logged and the
// store starts empty, mirroring the write side's best-effort contract.
func New(p Persister) *Store {
	s := &Store{
		persist: p,
		now:     time.Now,
		newID:   uuid.NewString,
	}

	sessions, err := p.Load()
	if err != nil {
		slog.Warn("failed to load sessions, starting empty", "error", err)
		return s
	}
	s.sessions = sessions
	return s
}

// List returns every session, most-recent-first.
func (s *Store) List() []domain.ChatSession {
	out := make([]domain.ChatSession, len(s.sessions))
	for i := range s.sessions {
		out[i] = cloneSession(s.sessions[i])
	}
	return out
}

// Get returns the session with the given id, or nil if absent.
func (s *Store) Get(id string) *domain.ChatSession {
	idx := s.index(id)
	if idx < 0 {
		return nil
	}
	c := cloneSession(s.sessions[idx])
	return &c
}

// Create inserts a fresh session at the head of the collection.
func (s *Store) Create(model string) domain.ChatSession {
	session := domain.ChatSession{
		ID:        s.newID(),
		Title:     "New Chat",
		Timestamp: s.now().UnixMilli(),
		Messages:  []domain.ChatMessage{},
		Model:     model,
	}

	s.sessions = append([]domain.ChatSession{session}, s.sessions...)
	s.save()

	return cloneSession(session)
}

// Update merges the given fields into the session with the given id and
// returns the updated session, or nil if no such session exists. If the
// update supplies the session's very first message and it is a user
// message, the title is recomputed from it.
func (s *Store) Update(id string, update SessionUpdate) *domain.ChatSession {
	idx := s.index(id)
	if idx < 0 {
		return nil
	}

	session := &s.sessions[idx]
	hadMessages := len(session.Messages) > 0

	if update.Title != nil {
		session.Title = *update.Title
	}
	if update.Model != nil {
		session.Model = *update.Model
	}
	if update.Messages != nil {
		session.Messages = append([]domain.ChatMessage(nil), (*update.Messages)...)
		if !hadMessages && len(session.Messages) == 1 && session.Messages[0].IsUser {
			session.Title = s.deriveTitle(session.Messages[0].Content)
		}
	}

	s.save()
	c := cloneSession(*session)
	return &c
}

// AppendMessage appends to the session's message log, refreshing its
// timestamp, and returns the updated session or nil if absent. The first
// message overall, when it is a user message, sets the title.
func (s *Store) AppendMessage(id string, msg domain.ChatMessage) *domain.ChatSession {
	idx := s.index(id)
	if idx < 0 {
		return nil
	}

	session := &s.sessions[idx]
	session.Messages = append(session.Messages, msg)
	session.Touch(s.now())

	if len(session.Messages) == 1 && msg.IsUser {
		session.Title = s.deriveTitle(msg.Content)
	}

	s.save()
	c := cloneSession(*session)
	return &c
}

// Delete removes the session with the given id, reporting whether it
// existed.
func (s *Store) Delete(id string) bool {
	idx := s.index(id)
	if idx < 0 {
		return false
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	s.save()

	return true
}

// GetOrCreateActive returns the most recent session, creating one with
// the given model if the collection is empty.
func (s *Store) GetOrCreateActive(model string) domain.ChatSession {
	if len(s.sessions) == 0 {
		return s.Create(model)
	}
	return cloneSession(s.sessions[0])
}

func (s *Store) index(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// deriveTitle truncates content to titleMaxLen runes plus an ellipsis,
// or labels the session with the current time when content is empty.
func (s *Store) deriveTitle(content string) string {
	if content == "" {
		return fmt.Sprintf("Chat %s", s.now().Format("1/2/2006, 3:04:05 PM"))
	}
	runes := []rune(content)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return content
}

// save persists the whole collection. Failures are logged, never raised:
// the in-memory state is authoritative for the rest of the process.
func (s *Store) save() {
	if err := s.persist.Save(s.sessions); err != nil {
		slog.Warn("failed to save sessions", "error", err)
	}
}

func cloneSession(session domain.ChatSession) domain.ChatSession {
	session.Messages = append([]domain.ChatMessage(nil), session.Messages...)
	return session
}
