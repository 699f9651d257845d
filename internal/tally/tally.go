// Package tally computes attendance roll-ups. Everything here is a pure
// function of the current category, attendee, and total collections; counts
// are recomputed from scratch on every call rather than patched
// incrementally, which is fine at the human scale these collections run at.
package tally

import (
	"strings"

	"ecc-register/internal/model"
)

// Score is a derived present-count for one category or total. It is never
// persisted.
type Score struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Present int    `json:"present"`
}

// CategoryScores counts, for each category, the attendees assigned to it
// that are marked present. An attendee whose ref points at a category no
// longer in the list (deleted, reconciliation pending) counts toward
// nothing.
func CategoryScores(categories []model.Category, attendees []model.Attendee) []Score {
	scores := make([]Score, 0, len(categories))
	for _, c := range categories {
		present := 0
		for _, a := range attendees {
			if a.Category != nil && a.Category.ID == c.ID && a.Present {
				present++
			}
		}
		scores = append(scores, Score{ID: c.ID, Name: c.Name, Present: present})
	}
	return scores
}

// TotalScores sums category scores for each total. A category id listed
// twice in one total is counted once; an id with no matching category
// contributes 0.
func TotalScores(totals []model.Total, categoryScores []Score) []Score {
	byID := make(map[string]int, len(categoryScores))
	for _, s := range categoryScores {
		byID[s.ID] = s.Present
	}

	scores := make([]Score, 0, len(totals))
	for _, t := range totals {
		present := 0
		seen := make(map[string]struct{}, len(t.Categories))
		for _, id := range t.Categories {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			present += byID[id]
		}
		scores = append(scores, Score{ID: t.ID, Name: t.Name, Present: present})
	}
	return scores
}

// FilterByName returns the attendees whose name contains the query,
// case-insensitive. A blank query returns the input unchanged. The filter
// is a display concern only; scores are always computed over the full set.
func FilterByName(attendees []model.Attendee, query string) []model.Attendee {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return attendees
	}

	filtered := make([]model.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if strings.Contains(strings.ToLower(a.Name), q) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
