package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Embedder превращает текст в вектор. Провайдер выбирается конфигом:
// openai — любой OpenAI-совместимый /embeddings endpoint,
// ollama — локальная модель,
// test — детерминированный оффлайн-вектор для тестов.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

func NewEmbedder(provider, baseURL, apiKey, model string) (Embedder, error) {
	switch provider {
	case "openai":
		return &openAIEmbedder{
			baseURL: strings.TrimRight(baseURL, "/"),
			apiKey:  apiKey,
			model:   model,
			httpc:   &http.Client{Timeout: 30 * time.Second},
		}, nil
	case "ollama":
		client, err := ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		return &ollamaEmbedder{client: client, model: model}, nil
	case "test":
		return TestEmbedder{}, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", provider)
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

type openAIEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: []string{text}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embeddings: status %s: %s", resp.Status, string(raw))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embeddings: decode: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings: empty response")
	}
	return parsed.Data[0].Embedding, nil
}

type ollamaEmbedder struct {
	client *ollama.Client
	model  string
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.Embeddings(ctx, &ollama.EmbeddingRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embeddings: empty response")
	}
	return resp.Embedding, nil
}

// TestEmbedder — 16-мерный мешок символов. Никуда не ходит, одинаковый
// текст всегда даёт одинаковый вектор.
type TestEmbedder struct{}

func (TestEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, 16)
	for i := 0; i < len(text); i++ {
		vec[int(text[i])%16]++
	}
	return vec, nil
}
