package domain

// WebSocket event types from client.
const (
	EventJoin           = "join"
	EventChatMessage    = "chatMessage"
	EventPrivateMessage = "privateMessage"
)

// WebSocket event types to client.
const (
	EventMessage        = "message"
	EventMessageHistory = "messageHistory"
	EventSuggestions    = "suggestions"
	EventError          = "error"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseEvent carries the discriminator for all inbound messages.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server payloads

type JoinPayload struct {
	Type     string `json:"type"`
	Room     string `json:"room" validate:"required"`
	Username string `json:"username" validate:"required"`
	Language string `json:"language" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=user agent supervisor"`
}

type ChatMessagePayload struct {
	Type     string `json:"type"`
	Room     string `json:"room" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Language string `json:"language"`
}

type PrivateMessagePayload struct {
	Type       string `json:"type"`
	Room       string `json:"room" validate:"required"`
	Message    string `json:"message" validate:"required"`
	TargetRole Role   `json:"targetRole" validate:"required,oneof=agent supervisor"`
}

// Server -> Client messages

// Envelope wraps every outbound delivery with its event name, so one
// push channel carries messages, history replays, and suggestions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}
