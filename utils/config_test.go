package utils

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "AI_PROVIDER", "OPENAI_API_KEY", "XAI_API_KEY",
		"ENABLE_SCREEN_GUIDE", "ENABLE_RAG"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfigFromEnv()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("AIProvider = %q, want openai", cfg.AIProvider)
	}
	if !cfg.EnableScreenGuide {
		t.Error("screen guide should default on")
	}
	if !cfg.EnableRAG {
		t.Error("RAG should default on")
	}
}

func TestProviderSelection(t *testing.T) {
	t.Setenv("AI_PROVIDER", "xai")
	t.Setenv("XAI_API_KEY", "xk")
	t.Setenv("OPENAI_API_KEY", "ok")

	cfg := LoadConfigFromEnv()

	if cfg.AIAPIKey() != "xk" {
		t.Errorf("AIAPIKey = %q, want the xAI key", cfg.AIAPIKey())
	}
	if cfg.AIBaseURL() != "https://api.x.ai/v1" {
		t.Errorf("AIBaseURL = %q", cfg.AIBaseURL())
	}
	if cfg.ModelName(true) != "grok-2-vision-1212" {
		t.Errorf("vision model = %q", cfg.ModelName(true))
	}
	if cfg.ModelName(false) != "grok-2-1212" {
		t.Errorf("text model = %q", cfg.ModelName(false))
	}

	t.Setenv("AI_PROVIDER", "openai")
	cfg = LoadConfigFromEnv()

	if cfg.AIAPIKey() != "ok" {
		t.Errorf("AIAPIKey = %q, want the OpenAI key", cfg.AIAPIKey())
	}
	if cfg.ModelName(true) != "gpt-4o" || cfg.ModelName(false) != "gpt-4o" {
		t.Errorf("models = %q/%q, want gpt-4o", cfg.ModelName(true), cfg.ModelName(false))
	}
}

func TestBoolFlagsFromEnv(t *testing.T) {
	t.Setenv("ENABLE_SCREEN_GUIDE", "false")
	t.Setenv("ENABLE_RAG", "0")

	cfg := LoadConfigFromEnv()

	if cfg.EnableScreenGuide {
		t.Error("ENABLE_SCREEN_GUIDE=false should disable the guide")
	}
	if cfg.EnableRAG {
		t.Error("ENABLE_RAG=0 should disable RAG")
	}
}
