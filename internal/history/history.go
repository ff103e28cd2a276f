// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps the ordered log of previously scored paragraphs. The
// scorer consults it for novelty only when no reference documents are
// available.
package history

import (
	"context"
	"sync"
)

// History is an append-only, ordered log of submitted paragraphs shared by
// all requests.
type History interface {
	Append(ctx context.Context, paragraph string) error
	All(ctx context.Context) ([]string, error)
}

// Memory is an in-process History. The zero value is an unbounded, empty
// history ready to use.
type Memory struct {
	mu      sync.Mutex
	entries []string
	max     int
}

// NewMemory returns an in-process history. A positive max keeps only the most
// recent max paragraphs; zero keeps everything for the life of the process.
func NewMemory(max int) *Memory {
	return &Memory{max: max}
}

// Append adds paragraph to the end of the log.
func (m *Memory) Append(_ context.Context, paragraph string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, paragraph)
	if m.max > 0 && len(m.entries) > m.max {
		drop := len(m.entries) - m.max
		m.entries = append(m.entries[:0:0], m.entries[drop:]...)
	}
	return nil
}

// All returns a copy of the log, oldest first.
func (m *Memory) All(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...), nil
}

// Len returns the number of paragraphs held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
