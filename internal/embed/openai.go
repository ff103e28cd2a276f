// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "text-embedding-3-small"

// OpenAIEmbedder generates embeddings with the OpenAI embeddings API or any
// server compatible with it.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder authenticated with apiKey. baseURL
// overrides the API endpoint when non-empty.
func NewOpenAIEmbedder(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai embedder: API key not configured")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEmbedder{client: &client, model: model}, nil
}

func (e *OpenAIEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyEmbedding
	}
	raw := resp.Data[0].Embedding
	v := make([]float32, len(raw))
	for i, x := range raw {
		v[i] = float32(x)
	}
	return v, nil
}

// Embed returns the normalized embedding of text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	return normalizing{name: "openai", raw: e.embed}.Embed(ctx, text)
}
