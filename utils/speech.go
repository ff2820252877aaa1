package utils

import (
	"context"

	"github.com/sampark-ai/sampark-backend/models"
	"go.uber.org/zap"
)

// STTProvider is one speech-to-text backend in the fallback chain.
type STTProvider interface {
	Configured() bool
	Transcribe(ctx context.Context, audio []byte, lang models.Language) (string, error)
}

// TTSProvider is one text-to-speech backend in the fallback chain.
type TTSProvider interface {
	Configured() bool
	Synthesize(ctx context.Context, text string, lang models.Language) ([]byte, error)
}

type sttAttempt struct {
	name     string
	provider STTProvider
}

type ttsAttempt struct {
	name     string
	provider TTSProvider
}

// SpeechService walks ordered provider chains until one succeeds. Failures
// never escape this boundary: transcription degrades to a placeholder,
// synthesis to empty audio.
//
// STT: Bhashini → Deepgram → Whisper
// TTS: Bhashini → Deepgram Aura → OpenAI TTS
type SpeechService struct {
	stt    []sttAttempt
	tts    []ttsAttempt
	logger *zap.Logger
}

func NewSpeechService(bhashini *BhashiniClient, deepgram *DeepgramClient, openai *OpenAIClient) *SpeechService {
	return &SpeechService{
		stt: []sttAttempt{
			{"bhashini", bhashini},
			{"deepgram", deepgram},
			{"whisper", openai},
		},
		tts: []ttsAttempt{
			{"bhashini", bhashini},
			{"deepgram", deepgram},
			{"openai", openai},
		},
		logger: zap.L().Named("speech"),
	}
}

// Transcribe converts audio to text, returning the transcript and the
// language detected from its script. The whole chain failing yields a
// placeholder transcript in the requested language.
func (s *SpeechService) Transcribe(ctx context.Context, audio []byte, lang models.Language) (string, models.Language) {
	for _, attempt := range s.stt {
		if !attempt.provider.Configured() {
			continue
		}
		text, err := attempt.provider.Transcribe(ctx, audio, lang)
		if err != nil {
			s.logger.Warn("STT provider failed",
				zap.String("provider", attempt.name), zap.Error(err))
			continue
		}
		s.logger.Debug("STT ok",
			zap.String("provider", attempt.name), zap.Int("length", len(text)))
		return text, DetectLanguage(text)
	}

	s.logger.Warn("All STT providers failed, returning placeholder")
	return PlaceholderTranscript(lang), lang
}

// Synthesize converts text to audio. Empty bytes when every provider fails.
func (s *SpeechService) Synthesize(ctx context.Context, text string, lang models.Language) []byte {
	if text == "" {
		return nil
	}
	for _, attempt := range s.tts {
		if !attempt.provider.Configured() {
			continue
		}
		audio, err := attempt.provider.Synthesize(ctx, text, lang)
		if err != nil {
			s.logger.Warn("TTS provider failed",
				zap.String("provider", attempt.name), zap.Error(err))
			continue
		}
		s.logger.Debug("TTS ok",
			zap.String("provider", attempt.name), zap.Int("bytes", len(audio)))
		return audio
	}

	s.logger.Warn("All TTS providers failed, returning empty audio")
	return nil
}

// DetectLanguage is a script heuristic: more Devanagari runes than Latin
// letters means Hindi.
func DetectLanguage(text string) models.Language {
	devanagari, latin := 0, 0
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	if devanagari > latin {
		return models.LangHindi
	}
	return models.LangEnglish
}
