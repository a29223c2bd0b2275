package domain

// Participant is one live connection within a room. It is created on
// join, never mutated, and destroyed on disconnect or when the owning
// room is deleted. The connection ID is supplied by the transport layer.
type Participant struct {
	ConnID   string `json:"conn_id"`
	Username string `json:"username"`
	Language string `json:"language"`
	Role     Role   `json:"role"`
}
