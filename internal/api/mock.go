package api

import (
	"context"
	"errors"
	"sync"

	"tutorlink/internal/domain"
)

// MockClient permite tests sin llamar al backend real. Err, si está, lo devuelven todas las llamadas.
type MockClient struct {
	mu sync.Mutex

	User         *domain.Identity
	Tutors       []domain.Tutor
	Token        string
	RefreshToken string
	Err          error

	Calls       []string
	LastPayload any
}

func (m *MockClient) record(call string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
	m.LastPayload = payload
	return m.Err
}

// CallCount devuelve cuántas veces se llamó a call.
func (m *MockClient) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockClient) user() (*domain.Identity, error) {
	if m.User == nil {
		return nil, &Error{StatusCode: 404, Message: "user not found"}
	}
	return m.User.Clone(), nil
}

func (m *MockClient) Login(_ context.Context, creds Credentials) (*LoginResult, error) {
	if err := m.record("Login", creds); err != nil {
		return nil, err
	}
	u, err := m.user()
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: m.Token, RefreshToken: m.RefreshToken}, nil
}

func (m *MockClient) Logout(context.Context) error {
	return m.record("Logout", nil)
}

func (m *MockClient) GetUser(_ context.Context, id string) (*domain.Identity, error) {
	if err := m.record("GetUser", id); err != nil {
		return nil, err
	}
	return m.user()
}

func (m *MockClient) RegisterParent(_ context.Context, reg Registration) error {
	return m.record("RegisterParent", reg)
}

func (m *MockClient) RegisterTutor(_ context.Context, reg Registration) error {
	return m.record("RegisterTutor", reg)
}

func (m *MockClient) ListTutors(context.Context) ([]domain.Tutor, error) {
	if err := m.record("ListTutors", nil); err != nil {
		return nil, err
	}
	return append([]domain.Tutor(nil), m.Tutors...), nil
}

func (m *MockClient) GetTutor(_ context.Context, id string) (*domain.Tutor, error) {
	if err := m.record("GetTutor", id); err != nil {
		return nil, err
	}
	for _, t := range m.Tutors {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, &Error{StatusCode: 404, Message: "tutor not found"}
}

func (m *MockClient) mutation(call string, payload any) (*domain.Identity, error) {
	if err := m.record(call, payload); err != nil {
		return nil, err
	}
	return m.user()
}

func (m *MockClient) UpdateParentProfile(_ context.Context, in ParentProfileUpdate) (*domain.Identity, error) {
	return m.mutation("UpdateParentProfile", in)
}

func (m *MockClient) UpdateTutorProfile(_ context.Context, in TutorProfileUpdate) (*domain.Identity, error) {
	return m.mutation("UpdateTutorProfile", in)
}

func (m *MockClient) AddSubject(_ context.Context, subject string) (*domain.Identity, error) {
	return m.mutation("AddSubject", subject)
}

func (m *MockClient) RemoveSubject(_ context.Context, subject string) (*domain.Identity, error) {
	return m.mutation("RemoveSubject", subject)
}

func (m *MockClient) AddCertificate(_ context.Context, in CertificateUpload) (*domain.Identity, error) {
	if len(in.Files) == 0 {
		return nil, errors.New("at least one certificate file is required")
	}
	return m.mutation("AddCertificate", in)
}

func (m *MockClient) AddWorkExperience(_ context.Context, in WorkExperienceInput) (*domain.Identity, error) {
	return m.mutation("AddWorkExperience", in)
}

func (m *MockClient) DeleteWorkExperience(_ context.Context, id string) (*domain.Identity, error) {
	return m.mutation("DeleteWorkExperience", id)
}

func (m *MockClient) UpdateAvailableDays(_ context.Context, days []string) (*domain.Identity, error) {
	return m.mutation("UpdateAvailableDays", days)
}

func (m *MockClient) UpdateChildren(_ context.Context, in ChildInput) (*domain.Identity, error) {
	return m.mutation("UpdateChildren", in)
}

func (m *MockClient) DeleteChild(_ context.Context, id string) (*domain.Identity, error) {
	return m.mutation("DeleteChild", id)
}

func (m *MockClient) UpdatePicture(_ context.Context, _ domain.Role, file File) (*domain.Identity, error) {
	return m.mutation("UpdatePicture", file)
}

func (m *MockClient) ContactTutor(_ context.Context, in ContactRequest) error {
	return m.record("ContactTutor", in)
}

func (m *MockClient) AddReview(_ context.Context, in ReviewRequest) error {
	return m.record("AddReview", in)
}
