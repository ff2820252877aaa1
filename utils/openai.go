package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sampark-ai/sampark-backend/models"
	"go.uber.org/zap"
)

// OpenAIClient talks to any OpenAI-compatible API (OpenAI itself, or xAI
// Grok via a base-URL override).
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	VisionModel string
	Client      *http.Client
}

type GPTMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type GPTResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type ImageContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

// NewOpenAIClient builds a client for the provider selected in cfg.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.AIAPIKey() == "" {
		zap.L().Warn("No AI API key configured; completions will fail",
			zap.String("provider", cfg.AIProvider))
	}

	return &OpenAIClient{
		APIKey:      cfg.AIAPIKey(),
		BaseURL:     cfg.AIBaseURL(),
		TextModel:   cfg.ModelName(false),
		VisionModel: cfg.ModelName(true),
		Client:      &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Configured reports whether the provider has an API key. The speech
// fallback chain skips unconfigured providers.
func (c *OpenAIClient) Configured() bool {
	return c.APIKey != ""
}

// AnalyzeScreen sends one screenshot plus the user's task context to the
// vision model and returns next-step guidance text.
func (c *OpenAIClient) AnalyzeScreen(ctx context.Context, imageB64, taskContext string, lang models.Language) (string, error) {
	imageURL := fmt.Sprintf("data:image/jpeg;base64,%s", imageB64)

	content := []ImageContent{
		{
			Type: "text",
			Text: fmt.Sprintf(ScreenContextPrompt(lang), taskContext),
		},
		{
			Type: "image_url",
			ImageURL: &struct {
				URL string `json:"url"`
			}{
				URL: imageURL,
			},
		},
	}

	messages := []GPTMessage{
		{Role: "system", Content: ScreenGuidePrompt(lang)},
		{Role: "user", Content: content},
	}

	requestBody := map[string]interface{}{
		"model":       c.VisionModel,
		"messages":    messages,
		"max_tokens":  500,
		"temperature": 0.4,
	}

	return c.sendRequest(ctx, requestBody)
}

// CompleteChat runs one text completion over the system prompt, rolling
// history (last 10 turns) and the new user message. RAG context, when
// present, is appended to the system prompt.
func (c *OpenAIClient) CompleteChat(ctx context.Context, userMessage string, history []models.ChatTurn, lang models.Language, ragContext string) (string, error) {
	system := SystemPrompt(lang)
	if ragContext != "" {
		system += "\n\nRelevant scheme data (use if helpful):\n" + ragContext
	}

	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	messages := []GPTMessage{{Role: "system", Content: system}}
	for _, turn := range history {
		messages = append(messages, GPTMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, GPTMessage{Role: "user", Content: userMessage})

	requestBody := map[string]interface{}{
		"model":       c.TextModel,
		"messages":    messages,
		"max_tokens":  1024,
		"temperature": 0.7,
	}

	return c.sendRequest(ctx, requestBody)
}

// Synthesize converts text to MP3 via the speech endpoint. Last link of the
// TTS fallback chain.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string, lang models.Language) ([]byte, error) {
	requestBody := map[string]interface{}{
		"model": "tts-1",
		"voice": "shimmer",
		"input": text,
	}
	requestBodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/audio/speech", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}

// Transcribe sends recorded audio to the Whisper transcription endpoint.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, lang models.Language) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("model", "whisper-1"); err != nil {
		return "", err
	}
	if err := writer.WriteField("language", lang.String()); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", "audio.webm")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}

func (c *OpenAIClient) sendRequest(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	requestBodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response GPTResponse
	if err := json.Unmarshal(bodyBytes, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat API response")
	}

	content := response.Choices[0].Message.Content
	zap.L().Debug("Chat completion content", zap.Int("length", len(content)))
	return strings.TrimSpace(content), nil
}
