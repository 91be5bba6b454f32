package hub

import (
	"github.com/sociable/chathub/internal/types"
)

// Frame types understood by the dispatcher. Anything else is dropped
// without a reply so newer clients can speak newer frame types against
// older servers.
const (
	FrameJoin = "JOIN"
	FrameMsg  = "MSG"
)

// ClientFrame is one decoded client-to-server protocol message. Every
// frame carries its own token; credentials are never cached across frames.
type ClientFrame struct {
	Type    string `json:"type"`
	ChatId  int    `json:"chatId"`
	Token   string `json:"token"`
	Content string `json:"content,omitempty"`
}

// ServerMessage is the single server-to-client envelope: either a fanned
// out persisted message or an error with a stable code.
type ServerMessage struct {
	Message *types.Message `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
}

const (
	CodeBadFrame          = "bad_frame"
	CodeInvalidCredential = "invalid_credential"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeInternal          = "internal"
)

func ErrBadFrame() *ServerMessage {
	return &ServerMessage{Error: "invalid message format", Code: CodeBadFrame}
}

func ErrInvalidCredential() *ServerMessage {
	return &ServerMessage{Error: "invalid credential", Code: CodeInvalidCredential}
}

func ErrConversationNotFound() *ServerMessage {
	return &ServerMessage{Error: "conversation not found", Code: CodeNotFound}
}

func ErrNotAMember() *ServerMessage {
	return &ServerMessage{Error: "forbidden", Code: CodeForbidden}
}

func ErrInternalError() *ServerMessage {
	return &ServerMessage{Error: "internal server error", Code: CodeInternal}
}
