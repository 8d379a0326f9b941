package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

// ChatHandler serves the text chat endpoint.
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler wires the chat service.
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleChat processes POST /agent/chat/. Malformed bodies and empty
// messages yield a 400 before anything is written to the conversation
// log.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Malformed chat request body", "error", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	if strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "empty message")
	}

	result, err := h.chat.Process(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
