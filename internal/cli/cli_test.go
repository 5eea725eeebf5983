package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tutorlink/internal/api"
	"tutorlink/internal/domain"
	"tutorlink/internal/security"
	"tutorlink/internal/service"
	"tutorlink/internal/session"
)

type fakePrompter struct {
	interactive bool
	answers     map[string]string
	asked       []string
}

func (f *fakePrompter) Interactive() bool { return f.interactive }

func (f *fakePrompter) answer(title string, value *string) error {
	f.asked = append(f.asked, title)
	*value = f.answers[title]
	return nil
}

func (f *fakePrompter) Input(title string, value *string) error    { return f.answer(title, value) }
func (f *fakePrompter) Password(title string, value *string) error { return f.answer(title, value) }
func (f *fakePrompter) Select(title string, _ []string, value *string) error {
	return f.answer(title, value)
}

type harness struct {
	client   *api.MockClient
	store    *session.Store
	prompter *fakePrompter
	loads    int
}

func newHarness(user *domain.Identity) *harness {
	client := &api.MockClient{
		User: user,
		Tutors: []domain.Tutor{
			{ID: "t-1", FullName: "Ann Lee", Location: "Boston", Subjects: []string{"Math"}, AvailableDays: []string{"Monday"},
				Reviews: []domain.Review{{Rating: 5, Comment: "Great", Parent: domain.ReviewAuthor{FullName: "Pat"}}}},
			{ID: "t-2", FullName: "Ben Ray", Location: "Reno", Subjects: []string{"Physics"}, AvailableDays: []string{"Sunday"}},
		},
	}
	store := session.NewStore(session.Mirrors{
		Durable: session.NewMemoryPersistence(),
		Tab:     session.NewMemoryPersistence(),
		Cookie:  session.NewMemoryPersistence(),
	}, client, nil)
	return &harness{client: client, store: store, prompter: &fakePrompter{answers: map[string]string{}}}
}

func (h *harness) signIn(user *domain.Identity) {
	h.store.Set(context.Background(), user)
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	loader := func(context.Context) (*Services, func(), error) {
		h.loads++
		durable := session.NewMemoryPersistence()
		sanitizer := security.NewSanitizer()
		return &Services{
			Auth:    service.NewAuthService(nil, h.client, h.store, session.NewTokenStore(durable, time.Hour)),
			Browse:  service.NewBrowseService(nil, h.client, sanitizer),
			Profile: service.NewProfileService(nil, h.client, h.store),
			Contact: service.NewContactService(nil, h.client, h.store, nil, sanitizer),
		}, func() {}, nil
	}
	var out bytes.Buffer
	cmd := NewRootCmd(loader, WithPrompter(h.prompter))
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func parent() *domain.Identity {
	return &domain.Identity{ID: "p-1", FullName: "Pat Parent", Email: "pat@example.com", Phone: "555-0101", Role: domain.RoleParent}
}

func tutor() *domain.Identity {
	return &domain.Identity{ID: "t-9", FullName: "Tess Tutor", Email: "tess@example.com", Role: domain.RoleTutor}
}

func TestLoginWithFlagsThenWhoami(t *testing.T) {
	h := newHarness(parent())

	out, err := h.run(t, "login", "--email", "pat@example.com", "--password", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Signed in as Pat Parent") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = h.run(t, "whoami", "--output", "json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"_id": "p-1"`) {
		t.Fatalf("expected json identity, got %q", out)
	}
	if h.client.CallCount("GetUser") != 1 {
		t.Fatalf("expected the second invocation to restore the saved session once, calls=%v", h.client.Calls)
	}
}

func TestLoginPromptsForMissingPassword(t *testing.T) {
	h := newHarness(parent())

	if _, err := h.run(t, "login", "--email", "pat@example.com"); err == nil || !strings.Contains(err.Error(), "missing --password") {
		t.Fatalf("expected missing flag error without a terminal, got %v", err)
	}

	h.prompter.interactive = true
	h.prompter.answers["Password"] = "secret1"
	if _, err := h.run(t, "login", "--email", "pat@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(h.prompter.asked) != 1 || h.prompter.asked[0] != "Password" {
		t.Fatalf("expected only the password prompt, got %v", h.prompter.asked)
	}
	if creds := h.client.LastPayload.(api.Credentials); creds.Password != "secret1" {
		t.Fatalf("expected prompted password to be sent")
	}
}

func TestWhoamiWithoutSession(t *testing.T) {
	h := newHarness(nil)

	if _, err := h.run(t, "whoami"); err == nil {
		t.Fatalf("expected an error without a session")
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(nil)

	_, err := h.run(t, "browse", "--output", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected format error, got %v", err)
	}
	if h.loads != 0 {
		t.Fatalf("services must not load for an invalid format")
	}
}

func TestBrowseRendersCardsAndYAML(t *testing.T) {
	h := newHarness(nil)

	out, err := h.run(t, "browse", "--search", "math")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if !strings.Contains(out, "Ann Lee") || strings.Contains(out, "Ben Ray") {
		t.Fatalf("expected only Ann in cards, got %q", out)
	}
	if !strings.Contains(out, "1 of 2 tutors") {
		t.Fatalf("expected match summary, got %q", out)
	}

	out, err = h.run(t, "browse", "--location", "Reno", "-o", "yaml")
	if err != nil {
		t.Fatalf("browse yaml: %v", err)
	}
	if !strings.Contains(out, "fullName: Ben Ray") || strings.Contains(out, "fullName: Ann Lee") {
		t.Fatalf("unexpected yaml %q", out)
	}
}

func TestBrowseRejectsBadFlags(t *testing.T) {
	h := newHarness(nil)

	if _, err := h.run(t, "browse", "--min-rating", "7"); err == nil {
		t.Fatalf("expected min rating error")
	}
	if _, err := h.run(t, "browse", "--availability", "mondays"); err == nil {
		t.Fatalf("expected availability error")
	}
	if h.client.CallCount("ListTutors") != 0 {
		t.Fatalf("backend must not be called for invalid flags")
	}
}

func TestTutorDetail(t *testing.T) {
	h := newHarness(nil)

	out, err := h.run(t, "tutor", "t-1")
	if err != nil {
		t.Fatalf("tutor: %v", err)
	}
	if !strings.Contains(out, "5/5 by Pat: Great") {
		t.Fatalf("expected review line, got %q", out)
	}
	if _, err := h.run(t, "tutor", "nope"); !api.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestContactUsesProfileDefaults(t *testing.T) {
	h := newHarness(parent())
	h.signIn(parent())

	if _, err := h.run(t, "contact", "t-1", "-m", "Can you help with algebra?"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	req := h.client.LastPayload.(api.ContactRequest)
	if req.FullName != "Pat Parent" || req.Email != "pat@example.com" || req.Phone != "555-0101" || req.TutorID != "t-1" {
		t.Fatalf("unexpected contact request %+v", req)
	}
}

func TestReviewRequiresParent(t *testing.T) {
	h := newHarness(tutor())
	h.signIn(tutor())

	_, err := h.run(t, "review", "t-1", "-r", "5", "-c", "Wonderful teacher")
	if err == nil || !strings.Contains(err.Error(), "role") {
		t.Fatalf("expected role error, got %v", err)
	}
	if h.client.CallCount("AddReview") != 0 {
		t.Fatalf("review must not be sent by a tutor")
	}
}

func TestReviewPromptsForRating(t *testing.T) {
	h := newHarness(parent())
	h.signIn(parent())
	h.prompter.interactive = true
	h.prompter.answers["Rating"] = "4"

	if _, err := h.run(t, "review", "t-1", "-c", "Very clear explanations"); err != nil {
		t.Fatalf("review: %v", err)
	}
	req := h.client.LastPayload.(api.ReviewRequest)
	if req.Rating != 4 || req.UserID != "p-1" {
		t.Fatalf("unexpected review %+v", req)
	}
}

func TestProfileSubjectsAndDays(t *testing.T) {
	h := newHarness(tutor())
	h.signIn(tutor())

	out, err := h.run(t, "profile", "subjects", "add", "Chemistry")
	if err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if !strings.Contains(out, "Subject added") {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := h.run(t, "profile", "days", "Monday,Tuesday", "Friday"); err != nil {
		t.Fatalf("days: %v", err)
	}
	days := h.client.LastPayload.([]string)
	if strings.Join(days, ",") != "Monday,Tuesday,Friday" {
		t.Fatalf("unexpected days %v", days)
	}

	if _, err := h.run(t, "profile", "days", "Someday"); err == nil {
		t.Fatalf("expected validation error for an unknown day")
	}
}

func TestProfileUpdateKeepsUnchangedFields(t *testing.T) {
	h := newHarness(parent())
	h.signIn(parent())

	if _, err := h.run(t, "profile", "update", "--location", "Boston"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := h.client.LastPayload.(api.ParentProfileUpdate)
	if got.Location != "Boston" || got.FullName != "Pat Parent" || got.Phone != "555-0101" {
		t.Fatalf("unexpected update %+v", got)
	}
}

func TestCertificateUpload(t *testing.T) {
	h := newHarness(tutor())
	h.signIn(tutor())
	dir := t.TempDir()
	pdf := filepath.Join(dir, "license.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4 test"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := h.run(t, "profile", "certificate", "add", "--name", "License", "--school", "State U", "--year", "2020", pdf); err != nil {
		t.Fatalf("certificate: %v", err)
	}
	up := h.client.LastPayload.(api.CertificateUpload)
	if len(up.Files) != 1 || up.Files[0].ContentType != "application/pdf" || up.Files[0].Name != "license.pdf" {
		t.Fatalf("unexpected upload %+v", up)
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("plain"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := h.run(t, "profile", "certificate", "add", "--name", "X", "--school", "Y", "--year", "2020", txt); err == nil {
		t.Fatalf("expected unsupported file type error")
	}
}

func TestContentTypeDetection(t *testing.T) {
	if got := contentType("cv.docx", nil); got != docxType {
		t.Fatalf("docx: got %q", got)
	}
	if got := contentType("me.png", nil); got != "image/png" {
		t.Fatalf("png: got %q", got)
	}
	if got := contentType("blob", []byte("\x89PNG\r\n\x1a\n")); got != "image/png" {
		t.Fatalf("sniffed: got %q", got)
	}
}
