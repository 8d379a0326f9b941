package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

// WebSocketMessage is the frame a websocket client sends.
type WebSocketMessage struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// WebSocketReply is the frame sent back for each message.
type WebSocketReply struct {
	Type      string             `json:"type"` // "connected", "reply" or "error"
	SessionID string             `json:"session_id,omitempty"`
	Result    *models.ChatResult `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// WebSocketHandler serves the streaming chat surface.
type WebSocketHandler struct {
	chat *services.ChatService
}

// NewWebSocketHandler wires the chat service.
func NewWebSocketHandler(chat *services.ChatService) *WebSocketHandler {
	return &WebSocketHandler{chat: chat}
}

// Upgrade gates the websocket route behind a proper upgrade request.
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle runs one chat connection: each inbound frame goes through the
// chat pipeline and the result is written back on the same connection.
// Clients that omit session_id get a generated one that sticks for the
// life of the connection.
func (h *WebSocketHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	sessionID := uuid.New().String()
	slog.Info("WebSocket chat connected", "sessionID", sessionID)

	welcome := WebSocketReply{Type: "connected", SessionID: sessionID}
	if data, err := json.Marshal(welcome); err == nil {
		c.WriteMessage(websocket.TextMessage, data)
	}

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", "sessionID", sessionID, "error", err)
			}
			return
		}

		var msg WebSocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.writeError(c, "invalid JSON frame")
			continue
		}
		if msg.SessionID != "" {
			sessionID = msg.SessionID
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		result, err := h.chat.Process(ctx, sessionID, msg.Message)
		cancel()
		if err != nil {
			var inputErr *models.InputError
			if errors.As(err, &inputErr) {
				h.writeError(c, inputErr.Msg)
			} else {
				slog.Error("WebSocket chat failed", "sessionID", sessionID, "error", err)
				h.writeError(c, "failed to process message")
			}
			continue
		}

		reply := WebSocketReply{Type: "reply", SessionID: sessionID, Result: result}
		data, err := json.Marshal(reply)
		if err != nil {
			slog.Error("Failed to marshal websocket reply", "error", err)
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("WebSocket write failed", "sessionID", sessionID, "error", err)
			return
		}
	}
}

func (h *WebSocketHandler) writeError(c *websocket.Conn, msg string) {
	reply := WebSocketReply{Type: "error", Error: msg}
	if data, err := json.Marshal(reply); err == nil {
		c.WriteMessage(websocket.TextMessage, data)
	}
}
