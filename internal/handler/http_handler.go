package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loadsmile/AIchatbot/internal/domain"
	"github.com/loadsmile/AIchatbot/internal/history"
	"github.com/loadsmile/AIchatbot/internal/registry"
)

// APIResponse is the envelope for the ops HTTP API.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HTTPHandler exposes a read-only view of live rooms and their
// history, role-filtered the same way replay-on-join is.
type HTTPHandler struct {
	registry *registry.Registry
	history  *history.Log
}

func NewHTTPHandler(reg *registry.Registry, hist *history.Log) *HTTPHandler {
	return &HTTPHandler{
		registry: reg,
		history:  hist,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/rooms/:room_id/messages", h.GetMessages)
		api.GET("/rooms/:room_id/participants", h.GetParticipants)
	}

	r.GET("/health", h.HealthCheck)
}

func (h *HTTPHandler) GetMessages(c *gin.Context) {
	roomID := c.Param("room_id")

	role := domain.Role(c.DefaultQuery("role", string(domain.RoleSupervisor)))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "role must be user, agent, or supervisor",
		})
		return
	}

	records, ok := h.history.Replay(roomID, role)
	if !ok {
		records = []domain.MessageRecord{}
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    records,
	})
}

func (h *HTTPHandler) GetParticipants(c *gin.Context) {
	roomID := c.Param("room_id")

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    h.registry.ParticipantsOf(roomID),
	})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"rooms":  h.registry.RoomCount(),
	})
}
