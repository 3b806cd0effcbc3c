// Package station matches complaints against a station across their itinerary.
package station

import (
	"sort"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Normalize trims and collapses internal whitespace.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizePtr normalizes an optional name, returning nil when blank.
func NormalizePtr(name *string) *string {
	if name == nil {
		return nil
	}
	n := Normalize(*name)
	if n == "" {
		return nil
	}
	return &n
}

// Matches reports whether the complaint's current, previous or next station
// equals query, ignoring case and whitespace differences.
func Matches(c *domain.Complaint, query string) bool {
	q := Normalize(query)
	if q == "" {
		return false
	}
	for _, field := range []*string{c.Station, c.PreviousStation, c.NextStation} {
		if field != nil && strings.EqualFold(Normalize(*field), q) {
			return true
		}
	}
	return false
}

// Filter returns the complaints relevant to query ordered by urgency.
// A blank query keeps every complaint.
func Filter(complaints []domain.Complaint, query string) []domain.Complaint {
	out := make([]domain.Complaint, 0, len(complaints))
	blank := Normalize(query) == ""
	for i := range complaints {
		if blank || Matches(&complaints[i], query) {
			out = append(out, complaints[i])
		}
	}
	SortByUrgency(out)
	return out
}

// SortByUrgency orders complaints most urgent first, keeping input order on ties.
func SortByUrgency(complaints []domain.Complaint) {
	sort.SliceStable(complaints, func(i, j int) bool {
		return complaints[i].UrgencyScore > complaints[j].UrgencyScore
	})
}
