// Package security limpia el texto libre que llega del backend o del usuario.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"tutorlink/internal/domain"
)

// Sanitizer elimina todo el markup de un texto. La salida es texto plano para JSON o terminal,
// no HTML: las entidades se decodifican después de quitar las etiquetas.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text devuelve s sin etiquetas ni espacios en los extremos.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

// Tutor limpia los campos de texto libre de un listing.
func (s *Sanitizer) Tutor(t domain.Tutor) domain.Tutor {
	t.FullName = s.Text(t.FullName)
	t.Bio = s.Text(t.Bio)
	t.Location = s.Text(t.Location)
	if t.Subjects != nil {
		subjects := make([]string, len(t.Subjects))
		for i, sub := range t.Subjects {
			subjects[i] = s.Text(sub)
		}
		t.Subjects = subjects
	}
	if t.Reviews != nil {
		reviews := make([]domain.Review, len(t.Reviews))
		for i, r := range t.Reviews {
			r.Comment = s.Text(r.Comment)
			r.Parent.FullName = s.Text(r.Parent.FullName)
			reviews[i] = r
		}
		t.Reviews = reviews
	}
	if t.WorkExperiences != nil {
		exps := make([]domain.TutorExperience, len(t.WorkExperiences))
		for i, e := range t.WorkExperiences {
			e.SchoolName = s.Text(e.SchoolName)
			e.Role = s.Text(e.Role)
			e.Description = s.Text(e.Description)
			exps[i] = e
		}
		t.WorkExperiences = exps
	}
	return t
}

// Tutors aplica Tutor a toda la colección sin modificar la original.
func (s *Sanitizer) Tutors(in []domain.Tutor) []domain.Tutor {
	out := make([]domain.Tutor, len(in))
	for i, t := range in {
		out[i] = s.Tutor(t)
	}
	return out
}
