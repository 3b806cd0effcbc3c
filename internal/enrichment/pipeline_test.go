package enrichment_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/enrichment"
	"github.com/spec-kit/complaint-service/internal/observability"
)

type stubClassifier struct {
	raw   map[string]any
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (enrichment.Response, error) {
	s.calls++
	if s.err != nil {
		return enrichment.Response{}, s.err
	}
	return enrichment.Response{Raw: s.raw}, nil
}

const classifierURL = "http://classifier.test/classify"

func newPipeline(c enrichment.Classifier, metrics *observability.Metrics) *enrichment.Pipeline {
	return enrichment.NewPipeline(enrichment.Config{Enabled: true, ClassifierURL: classifierURL}, c, nil, metrics)
}

func provenanceOf(t *testing.T, c *domain.Complaint) enrichment.Provenance {
	t.Helper()
	var prov enrichment.Provenance
	require.NoError(t, json.Unmarshal(c.Provenance, &prov))
	return prov
}

func TestEnrichFallsBackWhenClassifierUnreachable(t *testing.T) {
	stub := &stubClassifier{err: errors.New("dial tcp: connection refused")}
	metrics := observability.NewMetrics()
	c := &domain.Complaint{Text: "ac not working in coach", Category: domain.DefaultCategory}

	newPipeline(stub, metrics).Enrich(context.Background(), c)

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "Coach", c.DepartmentOrEmpty())
	assert.Equal(t, "Coach", c.Category)
	assert.Equal(t, 70, c.UrgencyScore)
	prov := provenanceOf(t, c)
	assert.Equal(t, enrichment.SourceHeuristic, prov.Source)
	assert.Equal(t, classifierURL, prov.ClassifierURL)
	assert.Contains(t, prov.Error, "connection refused")
	assert.Equal(t, "medium", prov.Priority)
	assert.Equal(t, int64(1), metrics.Snapshot().Enrichment[enrichment.SourceHeuristic])
}

func TestEnrichCategoryIndex(t *testing.T) {
	c := &domain.Complaint{Text: "passenger collapsed"}

	newPipeline(&stubClassifier{raw: map[string]any{"category": "6"}}, nil).Enrich(context.Background(), c)

	assert.Equal(t, "Medical", c.DepartmentOrEmpty())
	assert.Equal(t, 35, c.UrgencyScore)
	assert.Equal(t, enrichment.SourceClassifier, provenanceOf(t, c).Source)
}

func TestEnrichDepartmentFieldWins(t *testing.T) {
	c := &domain.Complaint{Text: "someone stole my phone"}
	raw := map[string]any{"department": " Security ", "category": 1, "priority": "HIGH", "confidence": 0.9}

	newPipeline(&stubClassifier{raw: raw}, nil).Enrich(context.Background(), c)

	assert.Equal(t, "Security", c.DepartmentOrEmpty())
	assert.Equal(t, 95, c.UrgencyScore)
	prov := provenanceOf(t, c)
	assert.Equal(t, "high", prov.Priority)
	assert.Equal(t, 0.9, prov.Raw["confidence"])
}

func TestEnrichNumericCategory(t *testing.T) {
	c := &domain.Complaint{Text: "x"}
	newPipeline(&stubClassifier{raw: map[string]any{"category": float64(9), "priority": "medium"}}, nil).Enrich(context.Background(), c)
	assert.Equal(t, "Water", c.DepartmentOrEmpty())
	assert.Equal(t, 70, c.UrgencyScore)
}

func TestEnrichTextLabelCategory(t *testing.T) {
	c := &domain.Complaint{Text: "x"}
	newPipeline(&stubClassifier{raw: map[string]any{"category": "Catering"}}, nil).Enrich(context.Background(), c)
	assert.Equal(t, "Catering", c.DepartmentOrEmpty())
}

func TestEnrichGeneralFromClassifierKeepsClassifierUrgency(t *testing.T) {
	c := &domain.Complaint{Text: "doctor needed in coach B2"}

	newPipeline(&stubClassifier{raw: map[string]any{"category": 4}}, nil).Enrich(context.Background(), c)

	assert.Equal(t, "Medical", c.DepartmentOrEmpty())
	assert.Equal(t, 35, c.UrgencyScore)
	assert.Equal(t, enrichment.SourceHeuristic, provenanceOf(t, c).Source)
}

func TestEnrichUnknownIndexOrOddValuesYieldNoDepartment(t *testing.T) {
	for _, raw := range []map[string]any{
		{"category": 42},
		{"category": 2.5},
		{"category": true},
		{"category": []any{"Coach"}},
		{},
	} {
		c := &domain.Complaint{Text: "the fan is broken"}
		newPipeline(&stubClassifier{raw: raw}, nil).Enrich(context.Background(), c)
		assert.Equal(t, "Electrical", c.DepartmentOrEmpty(), "%v", raw)
		assert.Equal(t, 35, c.UrgencyScore, "%v", raw)
	}
}

func TestEnrichSkippedWhenDisabledOrBlank(t *testing.T) {
	stub := &stubClassifier{raw: map[string]any{"department": "Coach"}}
	metrics := observability.NewMetrics()

	disabled := enrichment.NewPipeline(enrichment.Config{Enabled: false}, stub, nil, metrics)
	c := &domain.Complaint{Text: "dirty toilet", Category: domain.DefaultCategory}
	disabled.Enrich(context.Background(), c)
	assert.Nil(t, c.Department)
	assert.Zero(t, c.UrgencyScore)
	assert.Nil(t, c.Provenance)

	blank := &domain.Complaint{Text: "   "}
	newPipeline(stub, metrics).Enrich(context.Background(), blank)
	assert.Nil(t, blank.Department)
	assert.Zero(t, stub.calls)
	assert.Equal(t, int64(2), metrics.Snapshot().Enrichment["skipped"])
}

func TestEnrichWithoutClassifierUsesHeuristic(t *testing.T) {
	c := &domain.Complaint{Text: "There was a theft and the coach is dirty"}
	enrichment.NewPipeline(enrichment.Config{Enabled: true}, nil, nil, nil).Enrich(context.Background(), c)
	assert.Equal(t, "Security", c.DepartmentOrEmpty())
	assert.Equal(t, 95, c.UrgencyScore)
}

type panickyClassifier struct{}

func (panickyClassifier) Classify(context.Context, string) (enrichment.Response, error) {
	panic("boom")
}

func TestEnrichSurvivesClassifierPanic(t *testing.T) {
	c := &domain.Complaint{Text: "no drinking water"}
	assert.NotPanics(t, func() {
		newPipeline(panickyClassifier{}, nil).Enrich(context.Background(), c)
	})
	assert.Equal(t, "Water", c.DepartmentOrEmpty())
	assert.Equal(t, 70, c.UrgencyScore)
}
