// Package chat implements the client-side controller that coordinates
// session state, pending-request state and the send pipeline.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GOHANX1234/Aibot/internal/domain"
	"github.com/GOHANX1234/Aibot/internal/session"
)

// ErrBusy is returned when a send is attempted while another request is
// still awaiting its response. Callers are expected to disable input
// while Pending() is true; this error is the backstop.
var ErrBusy = errors.New("a message is already awaiting a response")

// Sender issues one message round trip to the backend.
type Sender interface {
	Send(ctx context.Context, message, model string) (*domain.SendMessageResponse, error)
}

// Orchestrator drives the Idle -> AwaitingResponse -> Idle send cycle
// for the active session. It is event-driven and not safe for
// concurrent use; one orchestrator serves one interactive surface.
type Orchestrator struct {
	store  *session.Store
	sender Sender

	messages []domain.ChatMessage
	model    string
	activeID string
	pending  bool

	onChange func()
}

// New creates an Orchestrator over the given store and sender,
// activating the most recent session or creating one with defaultModel.
func New(store *session.Store, sender Sender, defaultModel string) *Orchestrator {
	active := store.GetOrCreateActive(defaultModel)
	return &Orchestrator{
		store:    store,
		sender:   sender,
		messages: active.Messages,
		model:    active.Model,
		activeID: active.ID,
	}
}

// SetOnChange registers a callback fired after every state mutation.
// Replaces timer-based polling for session-list refresh.
func (o *Orchestrator) SetOnChange(fn func()) { o.onChange = fn }

// Messages returns the in-memory message log of the active session.
func (o *Orchestrator) Messages() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), o.messages...)
}

// Model returns the currently selected model identifier.
func (o *Orchestrator) Model() string { return o.model }

// ActiveSessionID returns the id of the active session.
func (o *Orchestrator) ActiveSessionID() string { return o.activeID }

// Pending reports whether a send is awaiting its response.
func (o *Orchestrator) Pending() bool { return o.pending }

// Sessions returns every session, most-recent-first.
func (o *Orchestrator) Sessions() []domain.ChatSession { return o.store.List() }

// SendMessage appends the user message optimistically, dispatches it and
// appends the assistant reply. Empty or whitespace-only text is a no-op.
// On failure the user message is retained and no assistant message is
// appended.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if o.pending {
		return ErrBusy
	}

	userMsg := domain.ChatMessage{Content: text, IsUser: true}
	o.messages = append(o.messages, userMsg)
	o.store.AppendMessage(o.activeID, userMsg)
	o.pending = true
	o.notify()

	resp, err := o.sender.Send(ctx, text, o.model)
	o.pending = false
	if err != nil {
		o.notify()
		return fmt.Errorf("send message: %w", err)
	}

	assistantMsg := domain.ChatMessage{Content: resp.Response, IsUser: false}
	o.messages = append(o.messages, assistantMsg)
	o.store.AppendMessage(o.activeID, assistantMsg)
	o.notify()

	return nil
}

// SwitchSession activates the session with the given id, replacing the
// in-memory log and model with its persisted values. No-op if absent.
func (o *Orchestrator) SwitchSession(id string) {
	target := o.store.Get(id)
	if target == nil {
		return
	}

	o.activeID = target.ID
	o.messages = target.Messages
	o.model = target.Model
	o.notify()
}

// CreateNewChat creates a fresh session and makes it active.
func (o *Orchestrator) CreateNewChat() domain.ChatSession {
	created := o.store.Create(o.model)
	o.activeID = created.ID
	o.messages = nil
	o.notify()
	return created
}

// DeleteSession removes a session. If it was active, another session is
// activated or a fresh one created, so at least one session always
// exists.
func (o *Orchestrator) DeleteSession(id string) bool {
	if !o.store.Delete(id) {
		return false
	}

	if id == o.activeID {
		remaining := o.store.List()
		if len(remaining) > 0 {
			o.activeID = remaining[0].ID
			o.messages = remaining[0].Messages
			o.model = remaining[0].Model
		} else {
			created := o.store.Create(o.model)
			o.activeID = created.ID
			o.messages = nil
		}
	}

	o.notify()
	return true
}

// ChangeModel updates the selected model and persists it onto the
// active session.
func (o *Orchestrator) ChangeModel(model string) {
	o.model = model
	o.store.Update(o.activeID, session.SessionUpdate{Model: &model})
	o.notify()
}

func (o *Orchestrator) notify() {
	if o.onChange != nil {
		o.onChange()
	}
}
