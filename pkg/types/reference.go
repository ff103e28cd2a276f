// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-companion
// scoring engine: reference documents fetched for a problem statement, the
// score breakdown, sentence feedback, and configuration.
package types

import "strings"

// ReferenceDocument is a normalized record returned by the literature search
// for a problem statement. It is immutable once constructed and lives only as
// long as the cache entry that holds it.
type ReferenceDocument struct {
	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract; it may be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Text is the title and abstract joined as "title. abstract". It is the
	// text compared against paragraphs and is never empty.
	Text string `json:"-" yaml:"text"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year when the source reports one.
	Year *int `json:"year" yaml:"year,omitempty"`

	// Citations is the citation count reported by the source.
	Citations int `json:"citations" yaml:"citations"`
}

// NewReferenceDocument builds a ReferenceDocument and its combined text. It
// reports false when the record has neither a title nor an abstract.
func NewReferenceDocument(title, abstract string, authors []string, year *int, citations int) (ReferenceDocument, bool) {
	text := CombinedText(title, abstract)
	if text == "" {
		return ReferenceDocument{}, false
	}
	if citations < 0 {
		citations = 0
	}
	if authors == nil {
		authors = []string{}
	}
	return ReferenceDocument{
		Title:     title,
		Abstract:  abstract,
		Text:      text,
		Authors:   authors,
		Year:      year,
		Citations: citations,
	}, true
}

// CombinedText joins a title and abstract the way documents are compared:
// "title. abstract", trimmed. An empty title contributes nothing.
func CombinedText(title, abstract string) string {
	var text string
	if title != "" {
		text = title + ". "
	}
	text += abstract
	return strings.TrimSpace(text)
}
