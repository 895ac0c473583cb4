// Package ollama is a minimal client for the Ollama HTTP API, covering the
// two calls Sentra needs: text embedding and non-streaming generation.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	// Host is the Ollama endpoint. A bare host:port gets an http:// prefix.
	Host string

	// EmbedModel is the embedding model name.
	EmbedModel string

	// GenModel is the generation model name.
	GenModel string

	// EmbedTimeout bounds a single embedding call.
	EmbedTimeout time.Duration

	// GenTimeout bounds a single generation call. Generation is slow, so
	// this is much larger than the embedding timeout.
	GenTimeout time.Duration

	// MaxConcurrent bounds the embedding fan-out in EmbedMany.
	MaxConcurrent int
}

const (
	DefaultHost       = "http://ollama:11434"
	DefaultEmbedModel = "nomic-embed-text"
	DefaultGenModel   = "mistral"

	defaultEmbedTimeout  = 60 * time.Second
	defaultGenTimeout    = 2 * time.Minute
	defaultMaxConcurrent = 8
)

// Client talks to one Ollama endpoint. It is safe for concurrent use.
type Client struct {
	baseURL       string
	embedModel    string
	genModel      string
	embedClient   *http.Client
	genClient     *http.Client
	maxConcurrent int
}

// New creates a Client from opts, applying defaults for unset fields.
func New(opts Options) *Client {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}

	embedModel := opts.EmbedModel
	if embedModel == "" {
		embedModel = DefaultEmbedModel
	}
	genModel := opts.GenModel
	if genModel == "" {
		genModel = DefaultGenModel
	}

	embedTimeout := opts.EmbedTimeout
	if embedTimeout <= 0 {
		embedTimeout = defaultEmbedTimeout
	}
	genTimeout := opts.GenTimeout
	if genTimeout <= 0 {
		genTimeout = defaultGenTimeout
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Client{
		baseURL:       strings.TrimRight(host, "/"),
		embedModel:    embedModel,
		genModel:      genModel,
		embedClient:   &http.Client{Timeout: embedTimeout},
		genClient:     &http.Client{Timeout: genTimeout},
		maxConcurrent: maxConcurrent,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var resp embedResponse
	if err := c.post(ctx, c.embedClient, "/api/embeddings", embedRequest{Model: c.embedModel, Prompt: text}, &resp); err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return resp.Embedding, nil
}

// EmbedMany embeds texts concurrently, bounded by MaxConcurrent, and returns
// one vector per input in input order. A failed embedding yields a nil vector
// at its position and a warning; it never fails the whole batch.
func (c *Client) EmbedMany(ctx context.Context, texts []string) [][]float64 {
	vectors := make([][]float64, len(texts))
	sem := make(chan struct{}, c.maxConcurrent)

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vec, err := c.Embed(ctx, text)
			if err != nil {
				log.Warn().
					Str("component", "ollama").
					Err(err).
					Str("text", truncate(text, 80)).
					Msg("Embedding failed")
				return
			}
			vectors[i] = vec
		}(i, text)
	}
	wg.Wait()

	return vectors
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate runs a non-streaming completion and returns the response text
// trimmed of surrounding whitespace. Unlike embedding, generation failures
// propagate: a summary cannot be silently substituted.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var resp generateResponse
	if err := c.post(ctx, c.genClient, "/api/generate", generateRequest{Model: c.genModel, Prompt: prompt}, &resp); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return strings.TrimSpace(resp.Response), nil
}

func (c *Client) post(ctx context.Context, client *http.Client, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
