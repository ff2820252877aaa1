package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sampark-ai/sampark-backend/models"
)

const voiceTimeout = 30 * time.Second

// Transcriber is the speech-to-text boundary. It never fails outright: the
// chain degrades to a placeholder transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, lang models.Language) (string, models.Language)
}

// VoiceHandler serves the plain request/response speech endpoints.
type VoiceHandler struct {
	Transcriber Transcriber
	Speech      Synthesizer
}

// HandleTranscribe accepts a multipart audio upload and returns the
// transcript plus the language detected from it.
func (h *VoiceHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "Missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil || len(audio) == 0 {
		http.Error(w, "Empty audio file", http.StatusBadRequest)
		return
	}

	lang := models.ParseLanguage(r.FormValue("lang"))

	ctx, cancel := context.WithTimeout(r.Context(), voiceTimeout)
	defer cancel()

	transcript, detected := h.Transcriber.Transcribe(ctx, audio, lang)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"transcript":    transcript,
		"detected_lang": detected.String(),
	})
}

// HandleSynthesize converts text to speech and returns base64 MP3.
func (h *VoiceHandler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	lang := models.ParseLanguage(req.Lang)

	ctx, cancel := context.WithTimeout(r.Context(), voiceTimeout)
	defer cancel()

	audio := h.Speech.Synthesize(ctx, req.Text, lang)
	audioB64 := ""
	if len(audio) > 0 {
		audioB64 = base64.StdEncoding.EncodeToString(audio)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"audio_b64": audioB64,
		"format":    "mp3",
	})
}
