package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

// HistoryHandler serves persisted conversation history.
type HistoryHandler struct {
	chat *services.ChatService
}

// NewHistoryHandler wires the chat service.
func NewHistoryHandler(chat *services.ChatService) *HistoryHandler {
	return &HistoryHandler{chat: chat}
}

// HandleHistory processes GET /agent/history/:sessionID. Unknown
// sessions return an empty list, not an error.
func (h *HistoryHandler) HandleHistory(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing session ID")
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	turns, err := h.chat.History(c.UserContext(), sessionID, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"history":    turns,
	})
}
