package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecc-register/internal/model"
)

func cat(id, name string) model.Category {
	return model.Category{ID: id, Name: name}
}

func att(id, name, categoryID string, present bool) model.Attendee {
	a := model.Attendee{ID: id, Name: name, Present: present}
	if categoryID != "" {
		a.Category = &model.CategoryRef{ID: categoryID, Name: "ref-" + categoryID}
	}
	return a
}

func TestCategoryScores(t *testing.T) {
	categories := []model.Category{cat("c1", "Red"), cat("c2", "Blue")}
	attendees := []model.Attendee{
		att("a1", "Ann", "c1", true),
		att("a2", "Bob", "c1", false),
		att("a3", "Cid", "c2", true),
		att("a4", "Dee", "c2", true),
		att("a5", "Eve", "", true), // no category
	}

	scores := CategoryScores(categories, attendees)
	require.Len(t, scores, 2)
	assert.Equal(t, Score{ID: "c1", Name: "Red", Present: 1}, scores[0])
	assert.Equal(t, Score{ID: "c2", Name: "Blue", Present: 2}, scores[1])
}

func TestCategoryScoresToggle(t *testing.T) {
	categories := []model.Category{cat("c1", "Red")}
	attendees := []model.Attendee{
		att("a1", "Ann", "c1", true),
		att("a2", "Bob", "c1", false),
	}

	scores := CategoryScores(categories, attendees)
	require.Len(t, scores, 1)
	assert.Equal(t, 1, scores[0].Present)

	attendees[1].Present = true
	scores = CategoryScores(categories, attendees)
	assert.Equal(t, 2, scores[0].Present)
}

func TestCategoryScoresDanglingRef(t *testing.T) {
	// The attendee's category was deleted; until reconciliation clears the
	// ref the attendee counts toward nothing.
	categories := []model.Category{cat("c1", "Red")}
	attendees := []model.Attendee{att("a1", "Ann", "deleted", true)}

	scores := CategoryScores(categories, attendees)
	require.Len(t, scores, 1)
	assert.Equal(t, 0, scores[0].Present)
}

func TestCategoryScoresEmpty(t *testing.T) {
	assert.Empty(t, CategoryScores(nil, []model.Attendee{att("a1", "Ann", "c1", true)}))

	scores := CategoryScores([]model.Category{cat("c1", "Red")}, nil)
	require.Len(t, scores, 1)
	assert.Equal(t, 0, scores[0].Present)
}

func TestTotalScores(t *testing.T) {
	categoryScores := []Score{
		{ID: "c1", Name: "Red", Present: 2},
		{ID: "c2", Name: "Blue", Present: 3},
	}
	totals := []model.Total{
		{ID: "t1", Name: "All", Categories: []string{"c1", "c2"}},
		{ID: "t2", Name: "Reds", Categories: []string{"c1"}},
	}

	scores := TotalScores(totals, categoryScores)
	require.Len(t, scores, 2)
	assert.Equal(t, Score{ID: "t1", Name: "All", Present: 5}, scores[0])
	assert.Equal(t, Score{ID: "t2", Name: "Reds", Present: 2}, scores[1])
}

func TestTotalScoresDeduplicatesCategoryIDs(t *testing.T) {
	categoryScores := []Score{{ID: "c1", Name: "Red", Present: 2}}
	totals := []model.Total{{ID: "t1", Name: "All", Categories: []string{"c1", "c1", "c1"}}}

	scores := TotalScores(totals, categoryScores)
	require.Len(t, scores, 1)
	assert.Equal(t, 2, scores[0].Present)
}

func TestTotalScoresMissingCategoryContributesZero(t *testing.T) {
	categoryScores := []Score{{ID: "c1", Name: "Red", Present: 2}}
	totals := []model.Total{{ID: "t1", Name: "All", Categories: []string{"c1", "gone"}}}

	scores := TotalScores(totals, categoryScores)
	require.Len(t, scores, 1)
	assert.Equal(t, 2, scores[0].Present)
}

func TestScoresIdempotent(t *testing.T) {
	categories := []model.Category{cat("c1", "Red"), cat("c2", "Blue")}
	attendees := []model.Attendee{
		att("a1", "Ann", "c1", true),
		att("a2", "Bob", "c2", true),
	}
	totals := []model.Total{{ID: "t1", Name: "All", Categories: []string{"c1", "c2"}}}

	first := CategoryScores(categories, attendees)
	second := CategoryScores(categories, attendees)
	assert.Equal(t, first, second)

	firstTotals := TotalScores(totals, first)
	secondTotals := TotalScores(totals, second)
	assert.Equal(t, firstTotals, secondTotals)
}

func TestFilterByName(t *testing.T) {
	attendees := []model.Attendee{
		att("a1", "Ann", "", false),
		att("a2", "Anna", "", false),
		att("a3", "Bob", "", false),
	}

	filtered := FilterByName(attendees, "ann")
	require.Len(t, filtered, 2)
	assert.Equal(t, "Ann", filtered[0].Name)
	assert.Equal(t, "Anna", filtered[1].Name)

	// Case-insensitive both ways, whitespace trimmed.
	assert.Len(t, FilterByName(attendees, "ANN"), 2)
	assert.Len(t, FilterByName(attendees, "  bob "), 1)

	// Blank query is the identity.
	assert.Equal(t, attendees, FilterByName(attendees, ""))
	assert.Equal(t, attendees, FilterByName(attendees, "   "))

	// Filtering never changes scores: they are computed over the full set.
	categories := []model.Category{cat("c1", "Red")}
	all := []model.Attendee{
		att("a1", "Ann", "c1", true),
		att("a2", "Bob", "c1", true),
	}
	FilterByName(all, "ann")
	scores := CategoryScores(categories, all)
	assert.Equal(t, 2, scores[0].Present)
}

func TestFilterByNameNoMatches(t *testing.T) {
	attendees := []model.Attendee{att("a1", "Ann", "", false)}
	assert.Empty(t, FilterByName(attendees, "zzz"))
}
