package domain

import "time"

// Message types stored in history and delivered to clients.
const (
	MessageTypePublic  = "public"
	MessageTypePrivate = "private"
	MessageTypeSystem  = "system"
)

// SystemUsername is the sender name on system records.
const SystemUsername = "System"

// MessageRecord is a single delivered, recipient-specific message.
// Because translation happens per recipient, one logical send produces
// one record per recipient, each reflecting exactly what that recipient
// saw. IsTranslated is true iff Text differs from OriginalText due to a
// successful translation.
type MessageRecord struct {
	Username     string    `json:"username"`
	Text         string    `json:"text"`
	OriginalText string    `json:"originalText,omitempty"`
	IsTranslated bool      `json:"isTranslated"`
	Timestamp    time.Time `json:"timestamp"`
	Type         string    `json:"type"`
	SenderRole   Role      `json:"senderRole,omitempty"`
	TargetRole   Role      `json:"targetRole,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// NewSystemRecord builds a presence record ("x has joined the chat").
func NewSystemRecord(text string, at time.Time) MessageRecord {
	return MessageRecord{
		Username:  SystemUsername,
		Text:      text,
		Timestamp: at,
		Type:      MessageTypeSystem,
	}
}
