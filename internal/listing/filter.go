package listing

import (
	"strings"

	"tutorlink/internal/domain"
)

// All es el valor centinela que desactiva un filtro de subject o location.
const All = "all"

// Valores de Availability.
const (
	AvailabilityAny      = "any"
	AvailabilityWeekdays = "weekdays"
	AvailabilityWeekends = "weekends"
)

// Criteria combina los predicados del buscador. Todos se aplican con AND.
type Criteria struct {
	SearchTerm   string
	Subject      string
	Location     string
	MinRating    float64
	Availability string
}

// NewCriteria devuelve criterios que no filtran nada.
func NewCriteria() Criteria {
	return Criteria{Subject: All, Location: All, Availability: AvailabilityAny}
}

// Facets son las opciones de los selectores, en orden de primera aparición.
type Facets struct {
	Subjects  []string `json:"subjects"`
	Locations []string `json:"locations"`
}

// Filter devuelve los tutores que cumplen c, sin reordenar.
func Filter(tutors []domain.Tutor, c Criteria) []domain.Tutor {
	term := strings.ToLower(c.SearchTerm)
	out := make([]domain.Tutor, 0, len(tutors))
	for _, t := range tutors {
		if !matchesSearch(t, term) {
			continue
		}
		if !matchesSubject(t, c.Subject) {
			continue
		}
		if !matchesLocation(t, c.Location) {
			continue
		}
		if c.MinRating > 0 && t.AverageRating() < c.MinRating {
			continue
		}
		if !matchesAvailability(t, c.Availability) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t domain.Tutor, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.FullName), term) {
		return true
	}
	for _, s := range t.Subjects {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return t.Bio != "" && strings.Contains(strings.ToLower(t.Bio), term)
}

func matchesSubject(t domain.Tutor, subject string) bool {
	if isAll(subject) {
		return true
	}
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

func matchesLocation(t domain.Tutor, location string) bool {
	if isAll(location) {
		return true
	}
	return t.Location != "" && strings.Contains(t.Location, location)
}

func matchesAvailability(t domain.Tutor, availability string) bool {
	switch strings.ToLower(strings.TrimSpace(availability)) {
	case "", AvailabilityAny:
		return true
	case AvailabilityWeekdays:
		return hasDay(t.AvailableDays, weekdays)
	case AvailabilityWeekends:
		return hasDay(t.AvailableDays, weekends)
	default:
		return true
	}
}

var (
	weekdays = map[string]bool{"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true}
	weekends = map[string]bool{"saturday": true, "sunday": true}
)

func hasDay(days []string, set map[string]bool) bool {
	for _, d := range days {
		if set[strings.ToLower(strings.TrimSpace(d))] {
			return true
		}
	}
	return false
}

// isAll trata el string vacío igual que el centinela.
func isAll(v string) bool {
	return v == "" || v == All
}

// BuildFacets deriva subjects y locations distintos. Las locations vacías se omiten.
func BuildFacets(tutors []domain.Tutor) Facets {
	f := Facets{Subjects: []string{}, Locations: []string{}}
	seenSubjects := make(map[string]struct{})
	seenLocations := make(map[string]struct{})
	for _, t := range tutors {
		for _, s := range t.Subjects {
			if _, ok := seenSubjects[s]; ok {
				continue
			}
			seenSubjects[s] = struct{}{}
			f.Subjects = append(f.Subjects, s)
		}
		if t.Location == "" {
			continue
		}
		if _, ok := seenLocations[t.Location]; ok {
			continue
		}
		seenLocations[t.Location] = struct{}{}
		f.Locations = append(f.Locations, t.Location)
	}
	return f
}
