package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loadsmile/AIchatbot/internal/domain"
)

func record(msgType, text string) domain.MessageRecord {
	return domain.MessageRecord{
		Username:  "alice",
		Text:      text,
		Timestamp: time.Now().UTC(),
		Type:      msgType,
	}
}

func Test_Replay_Filters_By_Viewer_Role(t *testing.T) {
	req := require.New(t)
	l := NewLog()

	l.Append("support", record(domain.MessageTypeSystem, "alice has joined the chat"))
	l.Append("support", record(domain.MessageTypePrivate, "escalating"))
	l.Append("support", record(domain.MessageTypePublic, "hello"))

	userView, ok := l.Replay("support", domain.RoleUser)
	req.True(ok)
	req.Len(userView, 1)
	req.Equal(domain.MessageTypePublic, userView[0].Type)

	agentView, ok := l.Replay("support", domain.RoleAgent)
	req.True(ok)
	req.Len(agentView, 3)

	supervisorView, ok := l.Replay("support", domain.RoleSupervisor)
	req.True(ok)
	req.Len(supervisorView, 3)
}

func Test_Replay_Absent_Room(t *testing.T) {
	req := require.New(t)
	l := NewLog()

	records, ok := l.Replay("nowhere", domain.RoleAgent)
	req.False(ok)
	req.Nil(records)
}

func Test_Replay_Preserves_Append_Order(t *testing.T) {
	req := require.New(t)
	l := NewLog()

	l.Append("support", record(domain.MessageTypePublic, "first"))
	l.Append("support", record(domain.MessageTypePublic, "second"))
	l.Append("support", record(domain.MessageTypePublic, "third"))

	records, ok := l.Replay("support", domain.RoleUser)
	req.True(ok)
	req.Equal([]string{"first", "second", "third"}, []string{records[0].Text, records[1].Text, records[2].Text})
}

func Test_Clear_Discards_Room_Log(t *testing.T) {
	req := require.New(t)
	l := NewLog()

	l.Append("support", record(domain.MessageTypePublic, "hello"))
	req.Equal(1, l.Len("support"))

	l.Clear("support")
	req.Equal(0, l.Len("support"))

	_, ok := l.Replay("support", domain.RoleAgent)
	req.False(ok)
}
