package history

import (
	"sync"

	"github.com/loadsmile/AIchatbot/internal/domain"
)

// Log stores each room's delivered message records in append order.
// History is recipient-specific: a public send to three participants
// appends three records, one per recipient. The log is append-only and
// owned 1:1 with its room; the router clears it when the room empties.
type Log struct {
	mu      sync.RWMutex
	records map[string][]domain.MessageRecord
}

func NewLog() *Log {
	return &Log{records: make(map[string][]domain.MessageRecord)}
}

// Append adds a record to the room's log, creating the log lazily.
func (l *Log) Append(roomID string, rec domain.MessageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[roomID] = append(l.records[roomID], rec)
}

// Replay returns the room's stored sequence filtered for the viewer:
// user-role viewers never see system or private records, staff roles
// see everything. ok is false when the room has no log at all, which
// lets the caller skip the replay event entirely.
func (l *Log) Replay(roomID string, viewer domain.Role) (records []domain.MessageRecord, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored, ok := l.records[roomID]
	if !ok {
		return nil, false
	}

	records = make([]domain.MessageRecord, 0, len(stored))
	for _, rec := range stored {
		if viewer == domain.RoleUser && (rec.Type == domain.MessageTypeSystem || rec.Type == domain.MessageTypePrivate) {
			continue
		}
		records = append(records, rec)
	}
	return records, true
}

// Clear discards the room's log. Called by the router when the last
// participant leaves, so a later join to the same id starts clean.
func (l *Log) Clear(roomID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, roomID)
}

// Len returns the number of stored records for the room.
func (l *Log) Len(roomID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records[roomID])
}
