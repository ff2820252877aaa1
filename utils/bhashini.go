package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sampark-ai/sampark-backend/models"
)

// BhashiniClient calls the Bhashini Dhruva pipeline API (Indian government
// STT/TTS for 22+ Indian languages). Preferred provider in both speech
// chains when credentials are configured.
type BhashiniClient struct {
	UserID      string
	APIKey      string
	PipelineURL string
	Client      *http.Client
}

func NewBhashiniClient(cfg Config) *BhashiniClient {
	return &BhashiniClient{
		UserID:      cfg.BhashiniUserID,
		APIKey:      cfg.BhashiniAPIKey,
		PipelineURL: cfg.BhashiniPipelineURL,
		Client:      &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Configured reports whether credentials are present. Unconfigured clients
// are skipped by the fallback chain instead of burning a failed attempt.
func (c *BhashiniClient) Configured() bool {
	return c.APIKey != ""
}

type bhashiniPipelineResponse struct {
	PipelineResponse []struct {
		Output []struct {
			Source string `json:"source"`
		} `json:"output"`
		Audio []struct {
			AudioContent string `json:"audioContent"`
		} `json:"audio"`
	} `json:"pipelineResponse"`
}

// Transcribe runs the ASR pipeline task over webm audio.
func (c *BhashiniClient) Transcribe(ctx context.Context, audio []byte, lang models.Language) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("bhashini credentials not configured")
	}

	payload := map[string]interface{}{
		"pipelineTasks": []map[string]interface{}{
			{
				"taskType": "asr",
				"config": map[string]interface{}{
					"language":     map[string]string{"sourceLanguage": lang.BhashiniCode()},
					"audioFormat":  "webm",
					"samplingRate": 16000,
				},
			},
		},
		"inputData": map[string]interface{}{
			"audio": []map[string]string{
				{"audioContent": base64.StdEncoding.EncodeToString(audio)},
			},
		},
	}

	data, err := c.post(ctx, payload)
	if err != nil {
		return "", err
	}

	if len(data.PipelineResponse) == 0 || len(data.PipelineResponse[0].Output) == 0 {
		return "", fmt.Errorf("empty bhashini ASR response")
	}
	text := strings.TrimSpace(data.PipelineResponse[0].Output[0].Source)
	if text == "" {
		return "", fmt.Errorf("empty bhashini transcript")
	}
	return text, nil
}

// Synthesize runs the TTS pipeline task and returns decoded audio bytes.
func (c *BhashiniClient) Synthesize(ctx context.Context, text string, lang models.Language) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("bhashini credentials not configured")
	}

	payload := map[string]interface{}{
		"pipelineTasks": []map[string]interface{}{
			{
				"taskType": "tts",
				"config": map[string]interface{}{
					"language": map[string]string{"sourceLanguage": lang.BhashiniCode()},
					"gender":   "female",
				},
			},
		},
		"inputData": map[string]interface{}{
			"input": []map[string]string{{"source": text}},
		},
	}

	data, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	if len(data.PipelineResponse) == 0 || len(data.PipelineResponse[0].Audio) == 0 {
		return nil, fmt.Errorf("empty bhashini TTS response")
	}
	audioB64 := data.PipelineResponse[0].Audio[0].AudioContent
	if audioB64 == "" {
		return nil, fmt.Errorf("empty bhashini audio content")
	}
	audio, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bhashini audio: %w", err)
	}
	return audio, nil
}

func (c *BhashiniClient) post(ctx context.Context, payload map[string]interface{}) (*bhashiniPipelineResponse, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.PipelineURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("userID", c.UserID)
	req.Header.Set("ulcaApiKey", c.APIKey)

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
		return nil, fmt.Errorf("bhashini API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var data bhashiniPipelineResponse
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}
	return &data, nil
}
