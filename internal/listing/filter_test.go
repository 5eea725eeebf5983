package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorlink/internal/domain"
)

func annAndBen() []domain.Tutor {
	return []domain.Tutor{
		{ID: "1", FullName: "Ann", Subjects: []string{"Math"}, Location: "Boston"},
		{ID: "2", FullName: "Ben", Subjects: []string{"Art"}, Location: "Reno"},
	}
}

func ids(tutors []domain.Tutor) []string {
	out := make([]string, 0, len(tutors))
	for _, t := range tutors {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterSentinelsReturnEverythingInOrder(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "c", FullName: "Cara"},
		{ID: "a", FullName: "Ann", Location: "Boston"},
		{ID: "b", FullName: "Ben", Bio: "art"},
	}
	got := Filter(tutors, Criteria{SearchTerm: "", Subject: All, Location: All})
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	assert.Equal(t, ids(tutors), ids(Filter(tutors, NewCriteria())))
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	got := Filter(annAndBen(), Criteria{SearchTerm: "math", Subject: All, Location: All})
	assert.Equal(t, []string{"1"}, ids(got))

	got = Filter(annAndBen(), Criteria{SearchTerm: "BEN", Subject: All, Location: All})
	assert.Equal(t, []string{"2"}, ids(got))

	got = Filter(annAndBen()[:1], Criteria{SearchTerm: "math ", Subject: All, Location: All})
	assert.Empty(t, got, "whitespace is part of the term")

	got = Filter(annAndBen()[:1], Criteria{SearchTerm: "   ", Subject: All, Location: All})
	assert.Empty(t, got, "a blank term is not an empty one")
}

func TestFilterLocationSubstring(t *testing.T) {
	got := Filter(annAndBen(), Criteria{Subject: All, Location: "Reno"})
	assert.Equal(t, []string{"2"}, ids(got))

	got = Filter(annAndBen(), Criteria{Subject: All, Location: "Bos"})
	assert.Equal(t, []string{"1"}, ids(got))

	got = Filter(annAndBen(), Criteria{Subject: All, Location: "reno"})
	assert.Empty(t, got, "location match is case-sensitive")
}

func TestFilterSubjectExactMatch(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "1", Subjects: []string{"Math", "Physics"}},
		{ID: "2", Subjects: []string{"math"}},
		{ID: "3", Subjects: []string{"Mathematics"}},
	}
	got := Filter(tutors, Criteria{Subject: "Math", Location: All})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterSearchMatchesBio(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "1", FullName: "Ann", Bio: "Former CHEMISTRY teacher"},
		{ID: "2", FullName: "Ben"},
	}
	got := Filter(tutors, Criteria{SearchTerm: "chemistry", Subject: All, Location: All})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterMissingFieldsNeverMatch(t *testing.T) {
	tutors := []domain.Tutor{{ID: "1", FullName: "Ann"}}
	assert.Empty(t, Filter(tutors, Criteria{SearchTerm: "boston", Subject: All, Location: All}))
	assert.Empty(t, Filter(tutors, Criteria{Subject: All, Location: "Boston"}))
	assert.Empty(t, Filter(tutors, Criteria{Subject: "Math", Location: All}))
}

func TestFilterPredicatesAreANDed(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "1", FullName: "Ann", Subjects: []string{"Math"}, Location: "Boston"},
		{ID: "2", FullName: "Amy", Subjects: []string{"Math"}, Location: "Reno"},
		{ID: "3", FullName: "Ann B", Subjects: []string{"Art"}, Location: "Boston"},
	}
	got := Filter(tutors, Criteria{SearchTerm: "an", Subject: "Math", Location: "Boston"})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterIsIdempotent(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "1", FullName: "Ann", Subjects: []string{"Math"}, Location: "Boston"},
		{ID: "2", FullName: "Ben", Subjects: []string{"Math", "Art"}, Location: "Boston MA"},
		{ID: "3", FullName: "Cara", Subjects: []string{"Art"}, Location: "Reno"},
	}
	criteria := []Criteria{
		NewCriteria(),
		{SearchTerm: "a", Subject: "Math", Location: "Boston"},
		{SearchTerm: "art", Subject: All, Location: All},
		{Subject: All, Location: "Reno", MinRating: 4},
	}
	for _, c := range criteria {
		once := Filter(tutors, c)
		twice := Filter(once, c)
		assert.Equal(t, ids(once), ids(twice))
	}
}

func TestFilterMinRating(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "1", Reviews: []domain.Review{{Rating: 5}, {Rating: 4}}},
		{ID: "2", Reviews: []domain.Review{{Rating: 2}}},
		{ID: "3"},
	}
	c := NewCriteria()
	c.MinRating = 4
	assert.Equal(t, []string{"1"}, ids(Filter(tutors, c)))

	c.MinRating = 0
	assert.Len(t, Filter(tutors, c), 3)
}

func TestFilterAvailability(t *testing.T) {
	tutors := []domain.Tutor{
		{ID: "1", AvailableDays: []string{"Monday", "Wednesday"}},
		{ID: "2", AvailableDays: []string{"Saturday"}},
		{ID: "3"},
	}
	c := NewCriteria()
	c.Availability = AvailabilityWeekdays
	assert.Equal(t, []string{"1"}, ids(Filter(tutors, c)))

	c.Availability = "Weekends"
	assert.Equal(t, []string{"2"}, ids(Filter(tutors, c)))

	c.Availability = ""
	assert.Len(t, Filter(tutors, c), 3)
}

func TestFilterEmptyCollection(t *testing.T) {
	got := Filter(nil, NewCriteria())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildFacets(t *testing.T) {
	tutors := []domain.Tutor{
		{Subjects: []string{"Math", "Art"}, Location: "Boston"},
		{Subjects: []string{"Art", "Math", "Math"}, Location: "Reno"},
		{Subjects: []string{"Physics"}, Location: "Boston"},
		{Subjects: nil},
	}
	f := BuildFacets(tutors)
	assert.Equal(t, []string{"Math", "Art", "Physics"}, f.Subjects)
	assert.Equal(t, []string{"Boston", "Reno"}, f.Locations)
}

func TestBuildFacetsEmpty(t *testing.T) {
	f := BuildFacets(nil)
	assert.NotNil(t, f.Subjects)
	assert.NotNil(t, f.Locations)
	assert.Empty(t, f.Subjects)
	assert.Empty(t, f.Locations)
}
