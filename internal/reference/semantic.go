// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/research-companion/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,year,citationCount"

// maxResponseBytes bounds the search response body that is read.
const maxResponseBytes = 8 << 20

// ErrSearchStatus is wrapped by errors for non-2xx search responses.
var ErrSearchStatus = errors.New("search returned non-success status")

// Searcher runs one literature search and returns normalized documents.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) (Page, error)
}

// Page is a parsed search response.
type Page struct {
	Documents []types.ReferenceDocument

	// Discarded counts records dropped during parsing.
	Discarded int
}

// SemanticScholar queries the Semantic Scholar Graph API paper search.
type SemanticScholar struct {
	Client    *http.Client
	APIKey    string
	UserAgent string

	// Limiter spaces outbound calls. Nil means unthrottled.
	Limiter *rate.Limiter
}

// NewSemanticScholar creates a client from cfg. A positive cfg.MinInterval
// throttles calls to one per interval.
func NewSemanticScholar(client *http.Client, cfg types.SearchConfig) *SemanticScholar {
	s := &SemanticScholar{Client: client, APIKey: cfg.APIKey, UserAgent: cfg.UserAgent}
	if cfg.MinInterval > 0 {
		s.Limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return s
}

// Name returns the searcher identifier.
func (s *SemanticScholar) Name() string { return "semantic_scholar" }

// Search issues a single request for query and parses the response. Network
// errors, non-2xx statuses and malformed bodies are returned as errors.
func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) (Page, error) {
	if strings.TrimSpace(query) == "" {
		return Page{}, fmt.Errorf("empty Semantic Scholar query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return Page{}, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading Semantic Scholar response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, fmt.Errorf("Semantic Scholar API returned HTTP %d: %w", resp.StatusCode, ErrSearchStatus)
	}

	return parseSemanticResponse(body)
}

// parseSemanticResponse validates the envelope strictly and each record
// individually: a record that does not decode, or has neither title nor
// abstract, is discarded without failing the page.
func parseSemanticResponse(body []byte) (Page, error) {
	var sr semanticResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Page{}, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var page Page
	for _, raw := range sr.Data {
		doc, ok := parseSemanticPaper(raw)
		if !ok {
			page.Discarded++
			continue
		}
		page.Documents = append(page.Documents, doc)
	}
	return page, nil
}

func parseSemanticPaper(raw json.RawMessage) (types.ReferenceDocument, bool) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return types.ReferenceDocument{}, false
	}
	var p semanticPaper
	if err := json.Unmarshal(raw, &p); err != nil {
		return types.ReferenceDocument{}, false
	}

	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if name := authorName(a); name != "" {
			authors = append(authors, name)
		}
	}

	citations := 0
	if p.CitationCount != nil {
		citations = *p.CitationCount
	}
	return types.NewReferenceDocument(strings.TrimSpace(p.Title), strings.TrimSpace(p.Abstract), authors, p.Year, citations)
}

// authorName accepts either {"name": "..."} objects or bare strings.
func authorName(raw json.RawMessage) string {
	var obj semanticAuthor
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return strings.TrimSpace(name)
	}
	return ""
}

// Semantic Scholar API JSON structures. Nullable fields decode to their zero
// values.
type semanticResponse struct {
	Total  int               `json:"total"`
	Offset int               `json:"offset"`
	Data   []json.RawMessage `json:"data"`
}

type semanticPaper struct {
	PaperID       string            `json:"paperId"`
	Title         string            `json:"title"`
	Abstract      string            `json:"abstract"`
	Year          *int              `json:"year"`
	CitationCount *int              `json:"citationCount"`
	Authors       []json.RawMessage `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
