package game

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/popsauce/popquiz/internal/server"
	"github.com/popsauce/popquiz/pkg/http/ws"
)

// WSHandler upgrades HTTP connections and bridges them to the controller.
// There is no authentication: connections are anonymous and identified by a
// generated id for their lifetime.
type WSHandler struct {
	ctrl   *Controller
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewWSHandler creates the websocket entry point.
func NewWSHandler(ctrl *Controller, hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{ctrl: ctrl, hub: hub, logger: logger}
}

// Handle upgrades the connection and pumps messages until it drops.
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.New()
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.Register(id, wsConn)
	h.ctrl.Connect(id)

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.route(id, msg)
	})

	h.hub.Unregister(id)
	h.ctrl.Disconnect(id)
}

func (h *WSHandler) route(id uuid.UUID, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeJoin:
		var req ws.JoinPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(id, ws.ErrCodeInvalidPayload, "Invalid join payload")
		}
		h.ctrl.Join(id, req.Name)
		return nil
	case ws.TypeStart:
		h.ctrl.Start(id)
		return nil
	case ws.TypeSubmit:
		var req ws.SubmitPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(id, ws.ErrCodeInvalidPayload, "Invalid submit payload")
		}
		h.ctrl.Submit(id, req.Text)
		return nil
	case ws.TypeChat:
		var req ws.ChatPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(id, ws.ErrCodeInvalidPayload, "Invalid chat payload")
		}
		h.ctrl.Chat(id, req.Text)
		return nil
	default:
		return h.sendError(id, ws.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *WSHandler) sendError(id uuid.UUID, code, message string) error {
	return h.hub.SendTo(id, ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message}))
}
