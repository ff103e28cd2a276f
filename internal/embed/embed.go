// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed maps text to unit-length vectors and compares them.
//
// Every Embedder returned by this package normalizes its output, so the dot
// product of two embeddings is their cosine similarity.
package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrEmptyEmbedding is returned when a backend produces no vector.
var ErrEmptyEmbedding = errors.New("embed: empty embedding")

// Vector is a fixed-length embedding with unit L2 norm.
type Vector []float32

// Embedder generates a vector embedding for a text. Implementations must be
// deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
}

// Func adapts a plain function to the Embedder interface.
type Func func(ctx context.Context, text string) (Vector, error)

// Embed calls f.
func (f Func) Embed(ctx context.Context, text string) (Vector, error) { return f(ctx, text) }

// Cosine returns the cosine similarity of two unit vectors, which is their dot
// product clamped to [-1, 1]. Vectors of different or zero length compare as 0.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return math.Max(-1, math.Min(1, dot))
}

// Normalize returns a copy of v scaled to unit length. A zero vector is
// returned unchanged.
func Normalize(v []float32) Vector {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make(Vector, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// normalizing wraps a raw backend so every result is validated and normalized.
type normalizing struct {
	name string
	raw  func(ctx context.Context, text string) ([]float32, error)
}

func (n normalizing) Embed(ctx context.Context, text string) (Vector, error) {
	v, err := n.raw(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.name, err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%s: %w", n.name, ErrEmptyEmbedding)
	}
	return Normalize(v), nil
}
