package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	listenapi "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	speakapi "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/rest"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
	speak "github.com/deepgram/deepgram-go-sdk/pkg/client/speak"

	"github.com/sampark-ai/sampark-backend/models"
)

// DeepgramClient wraps the prerecorded transcription and Speak REST APIs.
// Second link in both speech fallback chains, after Bhashini.
type DeepgramClient struct {
	apiKey string
}

func InitDeepgramClient(cfg Config) *DeepgramClient {
	if cfg.DeepgramAPIKey == "" {
		log.Warn("DEEPGRAM_API_KEY not set, Deepgram fallback disabled")
	}
	return &DeepgramClient{apiKey: cfg.DeepgramAPIKey}
}

func (d *DeepgramClient) Configured() bool {
	return d.apiKey != ""
}

// Transcribe sends recorded audio through the prerecorded listen API.
func (d *DeepgramClient) Transcribe(ctx context.Context, audio []byte, lang models.Language) (string, error) {
	if !d.Configured() {
		return "", fmt.Errorf("deepgram API key not configured")
	}

	c := listen.NewREST(d.apiKey, &interfaces.ClientOptions{})
	dg := listenapi.New(c)

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       "nova-2",
		Language:    lang.String(),
		SmartFormat: true,
	}

	res, err := dg.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		log.Error("Deepgram transcription failed:", err)
		return "", err
	}

	if len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("no transcription alternatives provided")
	}

	transcript := strings.TrimSpace(res.Results.Channels[0].Alternatives[0].Transcript)
	if transcript == "" {
		return "", fmt.Errorf("empty transcript")
	}

	log.Debug("Deepgram transcript length:", len(transcript))
	return transcript, nil
}

// Synthesize converts text to MP3 via the Speak REST API. Aura voices are
// English-only, so Hindi text falls through to the next provider.
func (d *DeepgramClient) Synthesize(ctx context.Context, text string, lang models.Language) ([]byte, error) {
	if !d.Configured() {
		return nil, fmt.Errorf("deepgram API key not configured")
	}
	if lang != models.LangEnglish {
		return nil, fmt.Errorf("deepgram TTS supports English only")
	}

	c := speak.NewREST(d.apiKey, &interfaces.ClientOptions{})
	dg := speakapi.New(c)

	options := &interfaces.SpeakOptions{
		Model: "aura-asteria-en",
	}

	buf := &interfaces.RawResponse{}
	if _, err := dg.ToStream(ctx, text, options, buf); err != nil {
		log.Error("Deepgram speech synthesis failed:", err)
		return nil, err
	}

	audio := buf.Bytes()
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return audio, nil
}
