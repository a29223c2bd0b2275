package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/loadsmile/AIchatbot/internal/config"
	"github.com/loadsmile/AIchatbot/internal/domain"
	"github.com/loadsmile/AIchatbot/internal/hub"
	"github.com/loadsmile/AIchatbot/internal/router"
	"github.com/loadsmile/AIchatbot/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub    *hub.Hub
	router *router.Router
	wsCfg  config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, rt *router.Router, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:    h,
		router: rt,
		wsCfg:  wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.Ctx(r.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleMessage)
		h.router.Disconnect(context.Background(), client.ID)
	}()
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid message format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.EventJoin:
		var p domain.JoinPayload
		if err := json.Unmarshal(message, &p); err != nil {
			client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid join message"))
			return
		}
		if err := h.router.Join(ctx, client.ID, &p); err != nil {
			client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, err.Error()))
		}

	case domain.EventChatMessage:
		var p domain.ChatMessagePayload
		if err := json.Unmarshal(message, &p); err != nil {
			client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid chatMessage"))
			return
		}
		if err := h.router.PublicSend(ctx, client.ID, &p); err != nil {
			client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, err.Error()))
		}

	case domain.EventPrivateMessage:
		var p domain.PrivateMessagePayload
		if err := json.Unmarshal(message, &p); err != nil {
			client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid privateMessage"))
			return
		}
		if err := h.router.PrivateSend(ctx, client.ID, &p); err != nil {
			client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, err.Error()))
		}

	default:
		client.SendEvent(domain.EventError, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Unknown message type"))
	}
}
