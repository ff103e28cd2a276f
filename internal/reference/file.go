// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-companion/pkg/types"
)

// ReferenceFile is the on-disk representation of the references fetched for a
// problem statement. A saved file can be fed back to the scorer to evaluate
// paragraphs offline without re-querying the search API.
type ReferenceFile struct {
	Problem   string                    `yaml:"problem"`
	Query     string                    `yaml:"query"`
	Documents []types.ReferenceDocument `yaml:"documents"`
	Summary   ReferenceSummary          `yaml:"summary"`
}

// ReferenceSummary stores result statistics and a timestamp.
type ReferenceSummary struct {
	Total     int       `yaml:"total"`
	Discarded int       `yaml:"discarded"`
	Error     string    `yaml:"error,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteReferenceFile saves the result of a lookup for problem to a YAML file.
func WriteReferenceFile(path, problem string, res Result) error {
	rf := ReferenceFile{
		Problem:   problem,
		Query:     res.Query,
		Documents: res.Documents,
		Summary: ReferenceSummary{
			Total:     len(res.Documents),
			Discarded: res.Discarded,
			Timestamp: time.Now().UTC(),
		},
	}
	if rf.Documents == nil {
		rf.Documents = []types.ReferenceDocument{}
	}
	if res.Err != nil {
		rf.Summary.Error = res.Err.Error()
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling reference file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReferenceFile loads a previously saved reference file from disk.
// Documents without a title or abstract are dropped and the combined text is
// rebuilt, so hand-edited files behave like fetched ones.
func ReadReferenceFile(path string) (*ReferenceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference file: %w", err)
	}
	var rf ReferenceFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing reference file: %w", err)
	}

	docs := make([]types.ReferenceDocument, 0, len(rf.Documents))
	for _, d := range rf.Documents {
		doc, ok := types.NewReferenceDocument(d.Title, d.Abstract, d.Authors, d.Year, d.Citations)
		if ok {
			docs = append(docs, doc)
		}
	}
	rf.Documents = docs
	return &rf, nil
}
