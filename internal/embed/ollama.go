// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "all-minilm"
)

// OllamaEmbedder generates embeddings through an Ollama server's /api/embed
// endpoint.
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

// NewOllamaEmbedder creates an embedder for the Ollama server at host using
// model. Empty values fall back to http://localhost:11434 and all-minilm.
func NewOllamaEmbedder(host, model string, httpClient *http.Client) (*OllamaEmbedder, error) {
	if host == "" {
		host = defaultOllamaHost
	}
	if model == "" {
		model = defaultOllamaModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	return &OllamaEmbedder{
		client: api.NewClient(u, httpClient),
		model:  model,
	}, nil
}

func (e *OllamaEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return resp.Embeddings[0], nil
}

// Embed returns the normalized embedding of text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	return normalizing{name: "ollama", raw: e.embed}.Embed(ctx, text)
}
