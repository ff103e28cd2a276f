// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-companion/internal/reference"
)

var _ reference.Observer = (*Metrics)(nil)

func TestObserveFetchOutcomes(t *testing.T) {
	m := New()
	m.ObserveFetch(reference.SourceSearch, 3, nil)
	m.ObserveFetch(reference.SourceCache, 3, nil)
	m.ObserveFetch(reference.SourceCache, 3, nil)
	m.ObserveFetch(reference.SourceSearch, 0, errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("error")))
}

func TestObserveEvaluation(t *testing.T) {
	m := New()
	m.ObserveEvaluation(EvaluationScored, 72.5)
	m.ObserveEvaluation(EvaluationShort, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues(EvaluationScored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues(EvaluationShort)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.SetHistorySize(4)
	m.ObserveRequest("/score", 200, 150*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "research_companion_history_size 4")
	assert.Contains(t, string(body), `research_companion_http_request_duration_seconds_count{code="200",route="/score"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
