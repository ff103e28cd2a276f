// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-companion/internal/companion"
	"github.com/pdiddy/research-companion/internal/reference"
	"github.com/pdiddy/research-companion/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a paragraph against a research problem",
	Long: `Score rates a paragraph against a problem statement and the literature
on it. The paragraph is read from --paragraph, from --file, or from stdin.

By default the reference papers are fetched from Semantic Scholar. Use
--references with a file written by "fetch --save" to score offline against
a fixed corpus.`,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	problem, _ := cmd.Flags().GetString("problem")
	refsPath, _ := cmd.Flags().GetString("references")
	format, _ := cmd.Flags().GetString("format")

	paragraph, err := readParagraph(cmd)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	req := companion.Request{Paragraph: paragraph, Problem: problem}

	var ev types.Evaluation
	if refsPath != "" {
		rf, err := reference.ReadReferenceFile(refsPath)
		if err != nil {
			return err
		}
		ev, err = a.service.EvaluateWith(ctx, req, rf.Documents)
		if err != nil {
			return err
		}
	} else {
		ev, err = a.service.Evaluate(ctx, req)
		if err != nil {
			return err
		}
	}

	return formatEvaluation(cmd.OutOrStdout(), ev, format)
}

func readParagraph(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("paragraph"); p != "" {
		return p, nil
	}
	path, _ := cmd.Flags().GetString("file")
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading paragraph: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading paragraph from stdin: %w", err)
	}
	return string(data), nil
}

func formatEvaluation(w io.Writer, ev types.Evaluation, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(ev)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if !ev.Scored() {
		fmt.Fprintf(w, "Paragraph too short to score (%d reference papers).\n", ev.PapersCount)
		return nil
	}

	fmt.Fprintf(w, "Score: %.1f/100\n\n", ev.Score)
	fmt.Fprintf(w, "  %-10s  %5.1f\n", "Novelty", ev.Breakdown.Novelty)
	fmt.Fprintf(w, "  %-10s  %5.1f\n", "Alignment", ev.Breakdown.Alignment)
	fmt.Fprintf(w, "  %-10s  %5.1f\n", "Coherence", ev.Breakdown.Coherence)
	fmt.Fprintf(w, "  %-10s  %5.1f\n", "Relevance", ev.Breakdown.Relevance)

	fmt.Fprintf(w, "\nCompared against %d reference papers.\n", ev.PapersCount)
	if ev.NoveltyDetail != nil && len(ev.NoveltyDetail.SimilarPapers) > 0 {
		fmt.Fprintf(w, "Most similar (max similarity %.3f):\n", ev.NoveltyDetail.MaxSimilarity)
		for _, p := range ev.NoveltyDetail.SimilarPapers {
			fmt.Fprintf(w, "  %.3f  %s\n", p.Similarity, truncate(p.Title, 70))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sentences:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, s := range ev.Sentences {
		fmt.Fprintf(w, "%2d. %s\n", i+1, s.Sentence)
		for _, issue := range s.Issues {
			fmt.Fprintf(w, "    ! %s %s\n", issue.Reason, issue.Suggestion)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	scoreCmd.Flags().String("problem", "", "research problem statement (default \"research problem\")")
	scoreCmd.Flags().String("paragraph", "", "paragraph to score")
	scoreCmd.Flags().String("file", "", "read the paragraph from a file (- for stdin)")
	scoreCmd.Flags().String("references", "", "score against a reference file written by fetch --save")
	scoreCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(scoreCmd)
}
