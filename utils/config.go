package utils

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment. Every
// handler receives it explicitly instead of calling os.Getenv ad hoc.
type Config struct {
	Port string

	// AI provider: "openai" or "xai" (Grok speaks the OpenAI wire format).
	AIProvider   string
	OpenAIAPIKey string
	XAIAPIKey    string

	// Bhashini (Indian govt STT/TTS pipeline)
	BhashiniUserID      string
	BhashiniAPIKey      string
	BhashiniPipelineURL string

	// Deepgram fallback STT/TTS
	DeepgramAPIKey string

	// Pinecone scheme corpus
	PineconeAPIKey string
	PineconeIndex  string

	// Redis chat memory (optional; empty addr disables it)
	RedisAddr     string
	RedisPassword string

	HTTPTimeout time.Duration

	// Feature flags
	EnableScreenGuide bool
	EnableRAG         bool
}

// LoadConfigFromEnv reads configuration with local-dev defaults.
func LoadConfigFromEnv() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		AIProvider:   getenv("AI_PROVIDER", "openai"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		XAIAPIKey:    os.Getenv("XAI_API_KEY"),

		BhashiniUserID: os.Getenv("BHASHINI_USER_ID"),
		BhashiniAPIKey: os.Getenv("BHASHINI_API_KEY"),
		BhashiniPipelineURL: getenv("BHASHINI_PIPELINE_URL",
			"https://dhruva-api.bhashini.gov.in/services/inference"),

		DeepgramAPIKey: os.Getenv("DEEPGRAM_API_KEY"),

		PineconeAPIKey: os.Getenv("PINECONE_API_KEY"),
		PineconeIndex:  os.Getenv("PINECONE_INDEX"),

		RedisAddr:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		HTTPTimeout: 30 * time.Second,

		EnableScreenGuide: getenvBool("ENABLE_SCREEN_GUIDE", true),
		EnableRAG:         getenvBool("ENABLE_RAG", true),
	}
}

// AIAPIKey returns the API key for the active provider.
func (c Config) AIAPIKey() string {
	if c.AIProvider == "xai" {
		return c.XAIAPIKey
	}
	return c.OpenAIAPIKey
}

// AIBaseURL returns the chat-completions base URL for the active provider.
func (c Config) AIBaseURL() string {
	if c.AIProvider == "xai" {
		return "https://api.x.ai/v1"
	}
	return "https://api.openai.com/v1"
}

// ModelName returns the model for the active provider. Vision selects the
// multimodal variant where the provider distinguishes them.
func (c Config) ModelName(vision bool) string {
	if c.AIProvider == "xai" {
		if vision {
			return "grok-2-vision-1212"
		}
		return "grok-2-1212"
	}
	return "gpt-4o"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
