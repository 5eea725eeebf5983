package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"tutorlink/internal/domain"
	"tutorlink/internal/service"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginBottom(1)
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ratingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

// encode escribe v como JSON o YAML; devuelve false si el formato es texto.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		// yaml.v3 ignora los tags json.
		raw, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(generic)
	}
	return false, nil
}

func field(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	return labelStyle.Render(label+": ") + value
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func stars(avg float64, count int) string {
	if count == 0 {
		return ratingStyle.Render("no reviews yet")
	}
	return ratingStyle.Render(fmt.Sprintf("★ %.1f (%d reviews)", avg, count))
}

func renderIdentity(u *domain.Identity) string {
	lines := []string{
		nameStyle.Render(u.FullName) + labelStyle.Render(" ("+string(u.Role)+")"),
		field("Email", u.Email),
		field("Phone", u.Phone),
		field("Location", u.Location),
	}
	if u.IsTutor() {
		lines = append(lines,
			field("Bio", u.Bio),
			field("Subjects", joinOrDash(u.Subjects)),
			field("Available", joinOrDash(u.AvailableDays)),
		)
		for _, c := range u.Certificates {
			lines = append(lines, field("Certificate", fmt.Sprintf("%s, %s (%s)", c.CertName, c.SchoolName, c.Year)))
		}
		for _, e := range u.WorkExperiences {
			lines = append(lines, field("Experience", fmt.Sprintf("%s at %s, %s [%s]", e.Role, e.SchoolName, e.Period, e.ID)))
		}
	} else {
		lines = append(lines, field("About", u.About))
		for _, c := range u.Children {
			lines = append(lines, field("Child", fmt.Sprintf("%s, %d, %s at %s [%s]", c.Name, c.Age, c.Grade, c.School, c.ID)))
		}
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderTutorCard(t service.TutorView) string {
	lines := []string{
		nameStyle.Render(t.FullName) + labelStyle.Render("  "+t.ID),
		stars(t.AverageRating, t.ReviewCount),
		field("Location", t.Location),
		field("Subjects", joinOrDash(t.Subjects)),
		field("Available", joinOrDash(t.AvailableDays)),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderTutorDetail(t service.TutorView) string {
	lines := []string{
		nameStyle.Render(t.FullName),
		stars(t.AverageRating, t.ReviewCount),
		field("Email", t.Email),
		field("Location", t.Location),
		field("Bio", t.Bio),
		field("Subjects", joinOrDash(t.Subjects)),
		field("Available", joinOrDash(t.AvailableDays)),
	}
	for _, e := range t.WorkExperiences {
		period := strings.TrimSpace(e.StartDate + " - " + e.EndDate)
		lines = append(lines, field("Experience", fmt.Sprintf("%s at %s (%s)", e.Role, e.SchoolName, period)))
	}
	for _, r := range t.Reviews {
		lines = append(lines, field("Review", fmt.Sprintf("%d/5 by %s: %s", r.Rating, r.Parent.FullName, r.Comment)))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderBrowse(res *service.BrowseResult) string {
	var b strings.Builder
	for _, t := range res.Tutors {
		b.WriteString(renderTutorCard(t))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n", labelStyle.Render(fmt.Sprintf("%d of %d tutors", res.Matched, res.Total)))
	fmt.Fprintf(&b, "%s\n", field("Subjects", joinOrDash(res.Facets.Subjects)))
	fmt.Fprintf(&b, "%s\n", field("Locations", joinOrDash(res.Facets.Locations)))
	return b.String()
}

func notify(w io.Writer, msg string) {
	fmt.Fprintln(w, okStyle.Render(msg))
}
