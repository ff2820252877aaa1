package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pinecone-io/go-pinecone/pinecone"
)

// SchemeIndex is the semantic-search collaborator over the government scheme
// corpus. The chat orchestrator treats it as opaque: a query in, reference
// text out, empty string on any failure.
type SchemeIndex struct {
	index        *pinecone.IndexConnection
	embeddingKey string
	httpClient   *http.Client
}

// NewSchemeIndex connects to the configured Pinecone index. Returns nil when
// RAG is disabled; callers treat a nil index as "no reference text".
func NewSchemeIndex(ctx context.Context, cfg Config) (*SchemeIndex, error) {
	if !cfg.EnableRAG {
		return nil, nil
	}
	if cfg.PineconeIndex == "" {
		return nil, fmt.Errorf("PINECONE_INDEX environment variable is not set")
	}
	if cfg.PineconeAPIKey == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY environment variable is not set")
	}

	clientParams := pinecone.NewClientParams{
		ApiKey: cfg.PineconeAPIKey,
	}

	client, err := pinecone.NewClient(clientParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	idx, err := client.DescribeIndex(ctx, cfg.PineconeIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index %q: %v", cfg.PineconeIndex, err)
	}

	idxConnection, err := client.Index(pinecone.NewIndexConnParams{Host: idx.Host, Namespace: "schemes"})
	if err != nil {
		return nil, fmt.Errorf("failed to create IndexConnection for Host %v: %v", idx.Host, err)
	}

	return &SchemeIndex{
		index:        idxConnection,
		embeddingKey: cfg.OpenAIAPIKey,
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

// Search returns the top-k scheme snippets relevant to the query, joined for
// prompt injection. Empty string when nothing matches.
func (s *SchemeIndex) Search(ctx context.Context, query string, topK int) (string, error) {
	if s == nil || s.index == nil {
		return "", nil
	}

	embedding, err := s.vectorize(ctx, query)
	if err != nil {
		return "", fmt.Errorf("error vectorizing query: %w", err)
	}

	queryRequest := &pinecone.QueryByVectorValuesRequest{
		Vector:          embedding,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: true,
	}

	queryResponse, err := s.index.QueryByVectorValues(ctx, queryRequest)
	if err != nil {
		return "", fmt.Errorf("error querying Pinecone index: %w", err)
	}

	var matches []string
	for _, match := range queryResponse.Matches {
		if match.Vector == nil || match.Vector.Metadata == nil {
			continue
		}
		value, ok := match.Vector.Metadata.Fields["text"]
		if ok {
			text := value.GetStringValue()
			if text != "" {
				matches = append(matches, text)
			}
		}
	}

	return strings.Join(matches, "\n---\n"), nil
}

// vectorize embeds the query text with the OpenAI embeddings API.
func (s *SchemeIndex) vectorize(ctx context.Context, promptText string) ([]float32, error) {
	if s.embeddingKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	requestBody := map[string]interface{}{
		"input": promptText,
		"model": "text-embedding-ada-002",
	}
	requestBodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/embeddings", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.embeddingKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var responseData struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &responseData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}

	if len(responseData.Data) == 0 {
		return nil, fmt.Errorf("no data in embeddings API response")
	}

	return responseData.Data[0].Embedding, nil
}
