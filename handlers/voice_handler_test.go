package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAsh-1102/AI-Sales-Agent/handlers"
	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

func newVoiceApp(f *fixture, tts *fakeSynthesizer, stt *fakeTranscriber) *fiber.App {
	app := fiber.New()
	app.Post("/agent/voice/", handlers.NewVoiceHandler(f.chat, tts, stt).HandleVoice)
	return app
}

func audioUpload(t *testing.T, sessionID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-wav-bytes"))
	require.NoError(t, err)
	if sessionID != "" {
		require.NoError(t, w.WriteField("session_id", sessionID))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleVoiceChat(t *testing.T) {
	f := newFixture()
	tts := &fakeSynthesizer{audio: "QUJD"}
	stt := &fakeTranscriber{text: "tell me about Laptop X", lang: "en"}
	app := newVoiceApp(f, tts, stt)

	body, contentType := audioUpload(t, "s1")
	req := httptest.NewRequest(http.MethodPost, "/agent/voice/", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "tell me about Laptop X", out["text"])
	assert.Equal(t, "en", out["detected_lang"])
	assert.Equal(t, "QUJD", out["audio_base64"])
	assert.Contains(t, out["reply"], "Laptop X")
}

func TestHandleVoiceChatTTSFailureDegrades(t *testing.T) {
	f := newFixture()
	tts := &fakeSynthesizer{err: &models.ProviderError{Provider: "elevenlabs", Err: errors.New("down")}}
	stt := &fakeTranscriber{text: "hello", lang: "en"}
	app := newVoiceApp(f, tts, stt)

	body, contentType := audioUpload(t, "s1")
	req := httptest.NewRequest(http.MethodPost, "/agent/voice/", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "", out["audio_base64"])
	assert.NotEmpty(t, out["reply"])
}

func TestHandleVoiceNoFile(t *testing.T) {
	f := newFixture()
	app := newVoiceApp(f, &fakeSynthesizer{}, &fakeTranscriber{text: "hi"})

	req := httptest.NewRequest(http.MethodPost, "/agent/voice/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleVoiceSTT(t *testing.T) {
	f := newFixture()
	app := newVoiceApp(f, &fakeSynthesizer{}, &fakeTranscriber{text: "how much is it", lang: "en"})

	body, contentType := audioUpload(t, "")
	req := httptest.NewRequest(http.MethodPost, "/agent/voice/?action=stt", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "how much is it", out["text"])
	assert.Empty(t, f.turns.turns, "standalone STT must not write to the log")
}

func TestHandleVoiceSTTProviderFailure(t *testing.T) {
	f := newFixture()
	stt := &fakeTranscriber{err: &models.ProviderError{Provider: "whisper", Err: errors.New("down")}}
	app := newVoiceApp(f, &fakeSynthesizer{}, stt)

	body, contentType := audioUpload(t, "")
	req := httptest.NewRequest(http.MethodPost, "/agent/voice/?action=stt", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleVoiceSTTNoSpeech(t *testing.T) {
	f := newFixture()
	app := newVoiceApp(f, &fakeSynthesizer{}, &fakeTranscriber{text: "   "})

	body, contentType := audioUpload(t, "")
	req := httptest.NewRequest(http.MethodPost, "/agent/voice/?action=stt", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleVoiceTTS(t *testing.T) {
	f := newFixture()
	app := newVoiceApp(f, &fakeSynthesizer{audio: "QUJD"}, &fakeTranscriber{})

	req := httptest.NewRequest(http.MethodPost, "/agent/voice/?action=tts",
		bytes.NewReader([]byte(`{"text":"Hello there"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "QUJD", out["audio_base64"])
}

func TestHandleVoiceTTSEmptyText(t *testing.T) {
	f := newFixture()
	app := newVoiceApp(f, &fakeSynthesizer{audio: "QUJD"}, &fakeTranscriber{})

	req := httptest.NewRequest(http.MethodPost, "/agent/voice/?action=tts",
		bytes.NewReader([]byte(`{"text":"  "}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleVoiceUnknownAction(t *testing.T) {
	f := newFixture()
	app := newVoiceApp(f, &fakeSynthesizer{}, &fakeTranscriber{})

	req := httptest.NewRequest(http.MethodPost, "/agent/voice/?action=transmogrify", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
