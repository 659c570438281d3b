package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/GOHANX1234/Aibot/internal/codeblock"
	"github.com/GOHANX1234/Aibot/internal/dispatch"
	"github.com/GOHANX1234/Aibot/internal/domain"
	"github.com/GOHANX1234/Aibot/internal/normalize"
	"github.com/GOHANX1234/Aibot/internal/store"
	"github.com/go-chi/chi/v5"
)

// ModelDispatcher issues the outbound upstream call for a message.
type ModelDispatcher interface {
	Dispatch(ctx context.Context, model, message string) (json.RawMessage, error)
}

// ChatHandler handles the message round-trip endpoints.
type ChatHandler struct {
	log        store.MessageLog
	dispatcher ModelDispatcher
	now        func() time.Time
}

// NewChatHandler creates a ChatHandler over the given log and dispatcher.
func NewChatHandler(log store.MessageLog, dispatcher ModelDispatcher) *ChatHandler {
	return &ChatHandler{
		log:        log,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// RegisterRoutes registers the chat API routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/send-message", h.SendMessage)
		r.Get("/messages", h.ListMessages)
	})
}

// SendMessage forwards a user message to the selected model and returns
// the normalized, code-marked response.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if !domain.ValidModel(req.Model) {
		Error(w, http.StatusBadRequest, "Invalid model selection")
		return
	}

	// Identity questions are answered locally, no upstream call.
	if normalize.IsIdentityQuestion(req.Message) {
		if err := h.saveExchange(r.Context(), req, normalize.IdentityResponse); err != nil {
			slog.Error("failed to store identity exchange", "error", err)
			Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		JSON(w, http.StatusOK, domain.SendMessageResponse{
			Response: normalize.IdentityResponse,
			Model:    req.Model,
		})
		return
	}

	body, err := h.dispatcher.Dispatch(r.Context(), req.Model, req.Message)
	if err != nil {
		if errors.Is(err, dispatch.ErrInvalidModel) {
			Error(w, http.StatusBadRequest, "Invalid model selection")
			return
		}
		slog.Error("upstream call failed", "model", req.Model, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to get response from AI service")
		return
	}

	response := normalize.Response(req.Model, body)
	marked, hasCode := codeblock.Mark(response)

	if err := h.saveExchange(r.Context(), req, marked); err != nil {
		slog.Error("failed to store exchange", "error", err)
		Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	JSON(w, http.StatusOK, domain.SendMessageResponse{
		Response: marked,
		Model:    req.Model,
		HasCode:  &hasCode,
	})
}

// ListMessages returns the full in-memory message log, ascending by
// timestamp.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.log.ListMessages(r.Context())
	if err != nil {
		slog.Error("failed to list messages", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	JSON(w, http.StatusOK, messages)
}

// saveExchange records the user message and the assistant response as a
// pair in the message log.
func (h *ChatHandler) saveExchange(ctx context.Context, req domain.SendMessageRequest, response string) error {
	ts := h.now().UnixMilli()

	if _, err := h.log.SaveMessage(ctx, domain.InsertMessage{
		Content:       req.Message,
		IsUserMessage: true,
		Model:         req.Model,
		Timestamp:     ts,
	}); err != nil {
		return err
	}

	_, err := h.log.SaveMessage(ctx, domain.InsertMessage{
		Content:       response,
		IsUserMessage: false,
		Model:         req.Model,
		Timestamp:     ts,
	})
	return err
}
