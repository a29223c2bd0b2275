package registry

import (
	"sync"

	"github.com/loadsmile/AIchatbot/internal/domain"
)

// Registry tracks which participants are connected to which room.
// A room exists iff it has at least one participant: the first join
// creates it and removing the last participant deletes it, both under
// the same lock, so a join racing the last leave sees either the old
// room or a fresh empty one.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]domain.Participant // roomID -> connID -> participant
	conns map[string]string                        // connID -> roomID
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]domain.Participant),
		conns: make(map[string]string),
	}
}

// Join inserts the participant into the room, creating the room if
// absent. Duplicate usernames are allowed; the connection ID is the key.
// A connection lives in at most one room, so joining displaces any
// prior membership. displaced reports that the connection was removed
// from prevRoom, and prevEmptied that the removal deleted prevRoom, so
// the caller can run the same teardown a leave would.
func (r *Registry) Join(roomID string, p domain.Participant) (prevRoom string, prevEmptied, displaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[p.ConnID]; ok && prev != roomID {
		if members := r.rooms[prev]; members != nil {
			delete(members, p.ConnID)
			if len(members) == 0 {
				delete(r.rooms, prev)
				prevEmptied = true
			}
		}
		prevRoom = prev
		displaced = true
	}

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]domain.Participant)
		r.rooms[roomID] = room
	}
	room[p.ConnID] = p
	r.conns[p.ConnID] = roomID
	return prevRoom, prevEmptied, displaced
}

// Leave removes the connection from whichever room contains it.
// empty reports whether the room was deleted because it became empty.
// ok is false when the connection is unknown.
func (r *Registry) Leave(connID string) (roomID string, p domain.Participant, empty, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok = r.conns[connID]
	if !ok {
		return "", domain.Participant{}, false, false
	}
	delete(r.conns, connID)

	room := r.rooms[roomID]
	p = room[connID]
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
		empty = true
	}
	return roomID, p, empty, true
}

// ParticipantsOf returns a snapshot of the room's participants, in no
// particular order. Absent rooms yield an empty slice.
func (r *Registry) ParticipantsOf(roomID string) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	out := make([]domain.Participant, 0, len(room))
	for _, p := range room {
		out = append(out, p)
	}
	return out
}

// Lookup resolves a connection to its participant and room.
func (r *Registry) Lookup(connID string) (p domain.Participant, roomID string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok = r.conns[connID]
	if !ok {
		return domain.Participant{}, "", false
	}
	return r.rooms[roomID][connID], roomID, true
}

// InRoom reports whether the connection is currently a member of roomID.
func (r *Registry) InRoom(connID, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[connID] == roomID
}

// HasRoom reports whether the room currently exists.
func (r *Registry) HasRoom(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID]
	return ok
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
