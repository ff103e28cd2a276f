// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentence splits paragraphs into ordered sentences.
package sentence

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter maps a text to its ordered, non-empty, trimmed sentences.
type Splitter interface {
	Split(text string) []string
}

// Func adapts a plain function to the Splitter interface.
type Func func(text string) []string

// Split calls f and drops empty results.
func (f Func) Split(text string) []string { return clean(f(text)) }

// Punkt splits English text with the Punkt sentence boundary algorithm,
// which handles abbreviations, initials and decimal numbers.
type Punkt struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunkt loads the English Punkt model.
func NewPunkt() (*Punkt, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading punkt model: %w", err)
	}
	return &Punkt{tokenizer: tok}, nil
}

// Split returns the sentences of text in order.
func (p *Punkt) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := p.tokenizer.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return clean(out)
}

func clean(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
