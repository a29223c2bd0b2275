package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/loadsmile/AIchatbot/internal/domain"
	"github.com/loadsmile/AIchatbot/internal/history"
	"github.com/loadsmile/AIchatbot/internal/registry"
)

func httpFixture(t *testing.T) (*registry.Registry, *history.Log, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := registry.New()
	hist := history.NewLog()
	engine := gin.New()
	NewHTTPHandler(reg, hist).RegisterRoutes(engine)
	return reg, hist, engine
}

func doGet(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)

	var out APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func Test_Get_Messages_Role_Filtered(t *testing.T) {
	req := require.New(t)
	_, hist, engine := httpFixture(t)

	now := time.Now().UTC()
	hist.Append("support", domain.NewSystemRecord("alice has joined the chat", now))
	hist.Append("support", domain.MessageRecord{
		Username: "alice", Text: "hello", Timestamp: now,
		Type: domain.MessageTypePublic, SenderRole: domain.RoleUser,
	})
	hist.Append("support", domain.MessageRecord{
		Username: "bob", Text: "escalating", Timestamp: now,
		Type: domain.MessageTypePrivate, SenderRole: domain.RoleAgent, TargetRole: domain.RoleSupervisor,
	})

	w, out := doGet(t, engine, "/api/v1/rooms/support/messages")
	req.Equal(http.StatusOK, w.Code)
	req.True(out.Success)
	req.Len(out.Data, 3) // default role is supervisor, sees everything

	_, out = doGet(t, engine, "/api/v1/rooms/support/messages?role=user")
	req.Len(out.Data, 1)
}

func Test_Get_Messages_Invalid_Role(t *testing.T) {
	req := require.New(t)
	_, _, engine := httpFixture(t)

	w, out := doGet(t, engine, "/api/v1/rooms/support/messages?role=admin")
	req.Equal(http.StatusBadRequest, w.Code)
	req.False(out.Success)
	req.NotEmpty(out.Error)
}

func Test_Get_Messages_Absent_Room(t *testing.T) {
	req := require.New(t)
	_, _, engine := httpFixture(t)

	w, out := doGet(t, engine, "/api/v1/rooms/nowhere/messages")
	req.Equal(http.StatusOK, w.Code)
	req.True(out.Success)
	req.Empty(out.Data)
}

func Test_Get_Participants(t *testing.T) {
	req := require.New(t)
	reg, _, engine := httpFixture(t)

	reg.Join("support", domain.Participant{ConnID: "c1", Username: "alice", Language: "en", Role: domain.RoleAgent})

	w, out := doGet(t, engine, "/api/v1/rooms/support/participants")
	req.Equal(http.StatusOK, w.Code)
	req.True(out.Success)
	req.Len(out.Data, 1)
}

func Test_Health_Check(t *testing.T) {
	req := require.New(t)
	reg, _, engine := httpFixture(t)
	reg.Join("support", domain.Participant{ConnID: "c1", Username: "alice", Language: "en", Role: domain.RoleAgent})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	req.Equal(http.StatusOK, w.Code)

	var out map[string]any
	req.NoError(json.Unmarshal(w.Body.Bytes(), &out))
	req.Equal("ok", out["status"])
	req.EqualValues(1, out["rooms"])
}
