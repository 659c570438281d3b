// Package domain contains core domain types for the Aibot application.
package domain

// The three AI models a message can be routed to. The identifiers double
// as dispatch keys for the upstream endpoint table.
const (
	ModelX1 = "x1"
	ModelX2 = "x2"
	ModelX3 = "x3"
)

// Models lists every recognized model identifier.
var Models = []string{ModelX1, ModelX2, ModelX3}

// ValidModel reports whether model is one of the recognized identifiers.
func ValidModel(model string) bool {
	for _, m := range Models {
		if m == model {
			return true
		}
	}
	return false
}

// ChatMessage is a single entry in a session's conversation log.
// Messages are immutable once appended.
type ChatMessage struct {
	Content string `json:"content"`
	IsUser  bool   `json:"isUser"`
}

// StoredMessage is the server-side record of one message, kept in the
// process-lifetime log exposed by GET /api/messages.
type StoredMessage struct {
	ID            int    `json:"id"`
	Content       string `json:"content"`
	IsUserMessage bool   `json:"isUserMessage"`
	Model         string `json:"model"`
	Timestamp     int64  `json:"timestamp"`
}

// InsertMessage carries the fields of a StoredMessage before the log
// assigns it an id.
type InsertMessage struct {
	Content       string `json:"content"`
	IsUserMessage bool   `json:"isUserMessage"`
	Model         string `json:"model"`
	Timestamp     int64  `json:"timestamp"`
}

// SendMessageRequest is the body of POST /api/send-message.
type SendMessageRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// SendMessageResponse is the reply to POST /api/send-message. HasCode is
// present only when the response went through code-block marking; the
// identity short-circuit path omits it.
type SendMessageResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	HasCode  *bool  `json:"hasCode,omitempty"`
}
