package handlers

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

// VoiceHandler serves the voice endpoint: standalone TTS and STT
// actions plus the full transcribe-chat-synthesize pipeline.
type VoiceHandler struct {
	chat *services.ChatService
	tts  services.Synthesizer
	stt  services.Transcriber
}

// NewVoiceHandler wires the voice pipeline.
func NewVoiceHandler(chat *services.ChatService, tts services.Synthesizer, stt services.Transcriber) *VoiceHandler {
	return &VoiceHandler{chat: chat, tts: tts, stt: stt}
}

// HandleVoice dispatches POST /agent/voice/ by the action query
// parameter: "tts", "stt", or empty for the full voice chat pipeline.
func (h *VoiceHandler) HandleVoice(c *fiber.Ctx) error {
	switch c.Query("action") {
	case "tts":
		return h.handleTTS(c)
	case "stt":
		return h.handleSTT(c)
	case "":
		return h.handleVoiceChat(c)
	}
	return fiber.NewError(fiber.StatusBadRequest, "unknown action")
}

// handleTTS synthesizes the posted text. Provider failure degrades to
// an empty audio field rather than an error response.
func (h *VoiceHandler) handleTTS(c *fiber.Ctx) error {
	var req models.TTSRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "empty text")
	}

	audio, err := h.tts.Synthesize(c.UserContext(), req.Text, services.DetectLanguage(req.Text))
	if err != nil {
		slog.Error("TTS failed, returning empty audio", "error", err)
		audio = ""
	}

	return c.JSON(fiber.Map{"audio_base64": audio})
}

// handleSTT transcribes an uploaded audio file. The transcription IS
// the operation here, so a provider failure maps to a 502 instead of
// degrading.
func (h *VoiceHandler) handleSTT(c *fiber.Ctx) error {
	transcription, err := h.transcribeUpload(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"text": transcription.Text})
}

// handleVoiceChat runs the full pipeline: transcribe, process as a
// chat message, synthesize the reply.
func (h *VoiceHandler) handleVoiceChat(c *fiber.Ctx) error {
	transcription, err := h.transcribeUpload(c)
	if err != nil {
		return err
	}

	sessionID := c.FormValue("session_id")
	result, err := h.chat.Process(c.UserContext(), sessionID, transcription.Text)
	if err != nil {
		return err
	}

	audio, err := h.tts.Synthesize(c.UserContext(), result.Reply, transcription.Language)
	if err != nil {
		slog.Error("TTS failed, returning voice reply without audio", "error", err)
		audio = ""
	}

	return c.JSON(fiber.Map{
		"reply":         result.Reply,
		"lead_stage":    result.LeadStage,
		"emotion":       result.Emotion,
		"text":          transcription.Text,
		"detected_lang": transcription.Language,
		"audio_base64":  audio,
	})
}

func (h *VoiceHandler) transcribeUpload(c *fiber.Ctx) (*services.Transcription, error) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no audio file attached")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable audio file")
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable audio file")
	}

	transcription, err := h.stt.Transcribe(c.UserContext(), fileHeader.Filename, audio)
	if err != nil {
		var provErr *models.ProviderError
		if errors.As(err, &provErr) {
			slog.Error("Transcription failed",
				"provider", provErr.Provider,
				"error", provErr.Err,
			)
			return nil, fiber.NewError(fiber.StatusBadGateway, "transcription unavailable")
		}
		return nil, err
	}

	if strings.TrimSpace(transcription.Text) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no speech detected")
	}
	return transcription, nil
}
