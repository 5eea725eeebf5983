package service

import (
	"context"

	"tutorlink/internal/api"
	"tutorlink/internal/domain"
)

// SessionStore es la parte del session.Store que usan los servicios.
type SessionStore interface {
	Get() *domain.Identity
	Set(ctx context.Context, identity *domain.Identity)
	Restore(ctx context.Context) error
	Logout(ctx context.Context) error
}

// TokenSaver persiste los tokens que devuelve el login.
type TokenSaver interface {
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
}

type AuthBackend interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResult, error)
	RegisterParent(ctx context.Context, reg api.Registration) error
	RegisterTutor(ctx context.Context, reg api.Registration) error
}

type TutorBackend interface {
	ListTutors(ctx context.Context) ([]domain.Tutor, error)
	GetTutor(ctx context.Context, id string) (*domain.Tutor, error)
}

type ProfileBackend interface {
	UpdateParentProfile(ctx context.Context, in api.ParentProfileUpdate) (*domain.Identity, error)
	UpdateTutorProfile(ctx context.Context, in api.TutorProfileUpdate) (*domain.Identity, error)
	AddSubject(ctx context.Context, subject string) (*domain.Identity, error)
	RemoveSubject(ctx context.Context, subject string) (*domain.Identity, error)
	AddCertificate(ctx context.Context, in api.CertificateUpload) (*domain.Identity, error)
	AddWorkExperience(ctx context.Context, in api.WorkExperienceInput) (*domain.Identity, error)
	DeleteWorkExperience(ctx context.Context, id string) (*domain.Identity, error)
	UpdateAvailableDays(ctx context.Context, days []string) (*domain.Identity, error)
	UpdateChildren(ctx context.Context, in api.ChildInput) (*domain.Identity, error)
	DeleteChild(ctx context.Context, id string) (*domain.Identity, error)
	UpdatePicture(ctx context.Context, role domain.Role, file api.File) (*domain.Identity, error)
}

type ContactBackend interface {
	ContactTutor(ctx context.Context, in api.ContactRequest) error
	AddReview(ctx context.Context, in api.ReviewRequest) error
}

// requireRole devuelve la identidad actual si tiene el rol pedido.
func requireRole(store SessionStore, role domain.Role) (*domain.Identity, error) {
	identity := store.Get()
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	if identity.Role != role {
		return nil, ErrForbiddenRole
	}
	return identity, nil
}
