// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-companion/internal/reference"
	"github.com/pdiddy/research-companion/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [problem]",
	Short: "Fetch the reference papers for a research problem",
	Long: `Fetch derives a search query from the problem statement (its leading key
terms) and retrieves the matching papers from Semantic Scholar. Use --save to
write them to a YAML file that "score --references" can reuse offline.`,
	Args: cobra.ArbitraryArgs,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	problem, _ := cmd.Flags().GetString("problem")
	if problem == "" {
		problem = strings.Join(args, " ")
	}
	if strings.TrimSpace(problem) == "" {
		return fmt.Errorf("problem required: pass it as an argument or with --problem")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	savePath, _ := cmd.Flags().GetString("save")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if limit <= 0 {
		limit = a.cfg.Search.Limit
	}
	res := a.fetcher.Lookup(context.Background(), problem, limit)

	if savePath != "" {
		if err := reference.WriteReferenceFile(savePath, problem, res); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d papers to %s\n", len(res.Documents), savePath)
	}
	if res.Err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: search failed: %v\n", res.Err)
	}

	return formatFetchOutput(cmd.OutOrStdout(), res, jsonOutput)
}

func formatFetchOutput(w io.Writer, res reference.Result, jsonOutput bool) error {
	if jsonOutput {
		docs := res.Documents
		if docs == nil {
			docs = []types.ReferenceDocument{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Query       string                    `json:"query"`
			Papers      []types.ReferenceDocument `json:"papers"`
			PapersCount int                       `json:"papers_count"`
		}{res.Query, docs, len(docs)})
	}

	if len(res.Documents) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return nil
	}

	fmt.Fprintf(w, "Query: %s\n\n", res.Query)
	fmt.Fprintf(w, "%-4s  %-4s  %-9s  %-50s  %s\n", "Rank", "Year", "Citations", "Title", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, d := range res.Documents {
		year := "-"
		if d.Year != nil {
			year = fmt.Sprint(*d.Year)
		}
		authors := strings.Join(d.Authors, ", ")
		fmt.Fprintf(w, "%-4d  %-4s  %-9d  %-50s  %s\n",
			i+1, year, d.Citations, truncate(d.Title, 50), truncate(authors, 30))
	}
	fmt.Fprintf(w, "\n%d papers\n", len(res.Documents))
	return nil
}

func init() {
	fetchCmd.Flags().String("problem", "", "research problem statement")
	fetchCmd.Flags().Int("limit", 0, "number of papers to request (default from config, 10)")
	fetchCmd.Flags().String("save", "", "write the papers to a YAML reference file")
	fetchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(fetchCmd)
}
