package utils

import (
	"strings"
	"testing"

	"github.com/sampark-ai/sampark-backend/models"
)

func TestIsGuidedFlow(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{
			"multi-step english",
			"Step 1: open the portal at pmkisan.gov.in. Step 2: fill the form.",
			true,
		},
		{
			"multi-step hindi",
			"चरण 1: पोर्टल खोलें। चरण 2: आवेदन करें।",
			true,
		},
		{
			"plain factual reply",
			"Your balance is ₹500.",
			false,
		},
		{
			"single keyword is not enough",
			"Visit the official website for details.",
			false,
		},
		{
			"exactly two distinct keywords",
			"Open the website and fill the form.",
			true,
		},
		{
			"repeats of one keyword count once",
			"form form form form",
			false,
		},
		{
			"case insensitive",
			"APPLY on the PORTAL today.",
			true,
		},
		{
			"empty reply",
			"",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGuidedFlow(tt.reply); got != tt.want {
				t.Errorf("IsGuidedFlow(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestSystemPromptPerLanguage(t *testing.T) {
	hi := SystemPrompt(models.LangHindi)
	en := SystemPrompt(models.LangEnglish)

	if hi == "" || en == "" {
		t.Fatal("system prompts must not be empty")
	}
	if hi == en {
		t.Error("Hindi and English system prompts should differ")
	}
}

func TestScreenPromptsPerLanguage(t *testing.T) {
	for _, lang := range []models.Language{models.LangHindi, models.LangEnglish} {
		if ScreenGuidePrompt(lang) == "" {
			t.Errorf("empty screen guide prompt for %q", lang)
		}
		if ScreenContextPrompt(lang) == "" {
			t.Errorf("empty screen context prompt for %q", lang)
		}
	}
}

func TestFallbackReplyCarriesHelplines(t *testing.T) {
	for _, lang := range []models.Language{models.LangHindi, models.LangEnglish} {
		reply := FallbackReply(lang)
		if !strings.Contains(reply, "pmkisan.gov.in") {
			t.Errorf("fallback for %q is missing the PM Kisan link", lang)
		}
		if !strings.Contains(reply, "181") {
			t.Errorf("fallback for %q is missing the helpline number", lang)
		}
	}
}

func TestPlaceholderTranscript(t *testing.T) {
	if PlaceholderTranscript(models.LangHindi) == PlaceholderTranscript(models.LangEnglish) {
		t.Error("placeholders should be language specific")
	}
}
