package router

// Sender is the transport port the router delivers through. The hub
// implements it over websockets; tests substitute a recorder. All
// room-wide traffic goes out as per-connection sends so every delivery
// to one recipient passes through that recipient's queue.
type Sender interface {
	// Send pushes one enveloped event to a single connection.
	Send(connID, event string, data any) error
	// JoinRoom and LeaveRoom keep the transport's room membership in
	// step with the registry.
	JoinRoom(connID, roomID string)
	LeaveRoom(connID, roomID string)
}
