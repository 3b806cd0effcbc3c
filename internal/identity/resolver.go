// Package identity derives ownership and display names for complaints from
// the caller's identity, including the legacy aliases needed to find
// complaints filed before ownership was tracked.
package identity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const (
	fallbackDisplayName = "User"
	fallbackActorName   = "System"
)

// Resolution is the ownership information stamped on a new complaint.
type Resolution struct {
	Owner       *string
	DisplayName string
	Station     *string
}

// Resolve decides owner, stored passenger name and default station for a
// complaint filed by id (nil for anonymous callers).
func Resolve(id *domain.Identity, passengerName string) Resolution {
	supplied := collapse(passengerName)
	if id == nil {
		if supplied == "" {
			supplied = fallbackDisplayName
		}
		return Resolution{DisplayName: supplied}
	}

	res := Resolution{Station: nonBlank(id.Station)}
	if owner := strings.TrimSpace(id.Username); owner != "" {
		res.Owner = &owner
	}
	switch {
	case id.Role.IsPassenger():
		res.DisplayName = DisplayName(id)
	case supplied != "":
		res.DisplayName = supplied
	default:
		res.DisplayName = DisplayName(id)
	}
	return res
}

// DisplayName is the full name when present, otherwise a prettified handle
// local part ("j.doe@rail.org" becomes "J Doe").
func DisplayName(id *domain.Identity) string {
	if id == nil {
		return fallbackDisplayName
	}
	if full := nonBlank(id.FullName); full != nil {
		return *full
	}
	local := LegacyAlias(id)
	if local == "" {
		return fallbackDisplayName
	}
	words := strings.FieldsFunc(local, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(words) == 0 {
		return fallbackDisplayName
	}
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// LegacyAlias is the raw handle fragment before the first "@".
func LegacyAlias(id *domain.Identity) string {
	if id == nil {
		return ""
	}
	handle := strings.TrimSpace(id.Username)
	if at := strings.Index(handle, "@"); at >= 0 {
		handle = handle[:at]
	}
	return strings.TrimSpace(handle)
}

// Aliases lists the passenger names under which this identity's complaints
// may have been stored, without case-insensitive duplicates.
func Aliases(id *domain.Identity) []string {
	if id == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, candidate := range []string{DisplayName(id), LegacyAlias(id)} {
		key := strings.ToLower(candidate)
		if candidate == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// ActorName is the attribution written into resolver fields.
func ActorName(id *domain.Identity) string {
	if id == nil {
		return fallbackActorName
	}
	if full := nonBlank(id.FullName); full != nil {
		return *full
	}
	if handle := collapse(id.Username); handle != "" {
		return handle
	}
	return fallbackActorName
}

// MergeByID unions complaint lists keyed by id, keeping the first occurrence,
// and orders the result by urgency (most urgent first, newest on ties).
func MergeByID(lists ...[]domain.Complaint) []domain.Complaint {
	seen := make(map[string]struct{})
	merged := make([]domain.Complaint, 0)
	for _, list := range lists {
		for _, c := range list {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].UrgencyScore != merged[j].UrgencyScore {
			return merged[i].UrgencyScore > merged[j].UrgencyScore
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := collapse(*s)
	if v == "" {
		return nil
	}
	return &v
}
