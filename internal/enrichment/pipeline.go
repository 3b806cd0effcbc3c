// Package enrichment attaches a department, an urgency score and provenance
// metadata to new complaints. Classifier failures degrade to the heuristic
// rules in package triage and are never returned to the caller.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/triage"
)

// Provenance sources.
const (
	SourceClassifier = "classifier"
	SourceHeuristic  = "heuristic"
)

// Config controls whether and where the classifier is called.
type Config struct {
	Enabled       bool
	ClassifierURL string
	Timeout       time.Duration
}

// Provenance records how an enrichment decision was reached.
type Provenance struct {
	Source        string         `json:"source"`
	ClassifierURL string         `json:"classifierUrl,omitempty"`
	Raw           map[string]any `json:"raw,omitempty"`
	Department    string         `json:"department"`
	Priority      string         `json:"priority"`
	UrgencyScore  int            `json:"urgencyScore"`
	Error         string         `json:"error,omitempty"`
}

// Pipeline orchestrates classifier call and heuristic fallback.
type Pipeline struct {
	cfg        Config
	classifier Classifier
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewPipeline wires a pipeline. classifier may be nil, in which case every
// enabled enrichment falls back to the heuristic rules.
func NewPipeline(cfg Config, classifier Classifier, logger *zap.Logger, metrics *observability.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, classifier: classifier, logger: logger, metrics: metrics}
}

var errNoClassifier = errors.New("no classifier configured")

// Enrich populates department, category, urgency and provenance on c.
func (p *Pipeline) Enrich(ctx context.Context, c *domain.Complaint) {
	if !p.cfg.Enabled || strings.TrimSpace(c.Text) == "" {
		p.metrics.RecordEnrichment("skipped")
		return
	}

	prov := Provenance{Source: SourceClassifier, ClassifierURL: p.cfg.ClassifierURL}
	var priority string

	resp, err := p.classify(ctx, c.Text)
	if err != nil {
		p.logger.Warn("classifier unavailable; falling back to heuristic classification",
			zap.String("complaint_ref", c.Reference), zap.Error(err))
		prov.Error = err.Error()
	} else {
		prov.Raw = resp.Raw
		department := extractDepartment(resp.Raw)
		priority = extractPriority(resp.Raw)
		if department != "" {
			c.Department = &department
			c.Category = department
		}
		c.UrgencyScore = triage.UrgencyForPriority(priority)
	}

	if triage.IsGeneral(c.DepartmentOrEmpty()) {
		inferred := triage.InferDepartment(c.Text)
		c.Department = &inferred
		c.Category = inferred
		if c.UrgencyScore <= 0 {
			priority = triage.PriorityForDepartment(inferred)
			c.UrgencyScore = triage.UrgencyForPriority(priority)
		}
		prov.Source = SourceHeuristic
	}
	c.UrgencyScore = domain.ClampUrgency(c.UrgencyScore)

	prov.Department = c.DepartmentOrEmpty()
	prov.Priority = priority
	prov.UrgencyScore = c.UrgencyScore
	if blob, err := json.Marshal(prov); err == nil {
		c.Provenance = blob
	} else {
		p.logger.Warn("provenance not recorded", zap.Error(err))
	}
	p.metrics.RecordEnrichment(prov.Source)
}

func (p *Pipeline) classify(ctx context.Context, text string) (resp Response, err error) {
	if p.classifier == nil {
		return Response{}, errNoClassifier
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("classifier panicked")
		}
	}()
	return p.classifier.Classify(ctx, text)
}

// extractDepartment prefers a direct department string and otherwise reads
// the category, mapping numeric values through the index table.
func extractDepartment(raw map[string]any) string {
	if dept, ok := raw["department"].(string); ok && strings.TrimSpace(dept) != "" {
		return strings.TrimSpace(dept)
	}
	switch category := raw["category"].(type) {
	case string:
		label := strings.TrimSpace(category)
		if label == "" {
			return ""
		}
		if idx, err := strconv.Atoi(label); err == nil {
			dept, _ := triage.DepartmentForIndex(idx)
			return dept
		}
		return label
	case int:
		dept, _ := triage.DepartmentForIndex(category)
		return dept
	case float64:
		if category != math.Trunc(category) {
			return ""
		}
		dept, _ := triage.DepartmentForIndex(int(category))
		return dept
	default:
		return ""
	}
}

func extractPriority(raw map[string]any) string {
	if priority, ok := raw["priority"].(string); ok {
		return strings.ToLower(strings.TrimSpace(priority))
	}
	return ""
}
