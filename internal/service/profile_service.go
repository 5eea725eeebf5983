package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tutorlink/internal/api"
	"tutorlink/internal/domain"
	"tutorlink/internal/validation"
)

// CertificateInput es un certificado con sus archivos ya leídos.
type CertificateInput struct {
	CertName   string
	SchoolName string
	Year       string
	Files      []api.File
}

// ProfileService aplica las mutaciones del perfil propio. Cada respuesta { user }
// reemplaza la identidad del Session Store.
type ProfileService struct {
	logger  *zap.Logger
	backend ProfileBackend
	store   SessionStore
}

func NewProfileService(logger *zap.Logger, backend ProfileBackend, store SessionStore) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{logger: logger, backend: backend, store: store}
}

func (s *ProfileService) UpdateParentProfile(ctx context.Context, form validation.ParentProfileForm) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleParent); err != nil {
		return nil, err
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	return s.adopt(ctx, "update parent profile", func() (*domain.Identity, error) {
		return s.backend.UpdateParentProfile(ctx, api.ParentProfileUpdate{
			FullName: strings.TrimSpace(form.FullName),
			Email:    strings.TrimSpace(form.Email),
			Phone:    strings.TrimSpace(form.Phone),
			Location: strings.TrimSpace(form.Location),
			About:    strings.TrimSpace(form.About),
		})
	})
}

func (s *ProfileService) UpdateTutorProfile(ctx context.Context, form validation.TutorProfileForm) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleTutor); err != nil {
		return nil, err
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	return s.adopt(ctx, "update tutor profile", func() (*domain.Identity, error) {
		return s.backend.UpdateTutorProfile(ctx, api.TutorProfileUpdate{
			FullName: strings.TrimSpace(form.FullName),
			Email:    strings.TrimSpace(form.Email),
			Phone:    strings.TrimSpace(form.Phone),
			Location: strings.TrimSpace(form.Location),
			Bio:      strings.TrimSpace(form.Bio),
		})
	})
}

// AddSubject ignora subjects que el tutor ya tiene.
func (s *ProfileService) AddSubject(ctx context.Context, subject string) (*domain.Identity, error) {
	identity, err := requireRole(s.store, domain.RoleTutor)
	if err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	if err := validation.Struct(validation.SubjectForm{Subject: subject}); err != nil {
		return nil, err
	}
	for _, existing := range identity.Subjects {
		if existing == subject {
			return identity, nil
		}
	}
	return s.adopt(ctx, "add subject", func() (*domain.Identity, error) {
		return s.backend.AddSubject(ctx, subject)
	})
}

func (s *ProfileService) RemoveSubject(ctx context.Context, subject string) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleTutor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(subject) == "" {
		return nil, &validation.Error{Fields: map[string]string{"subject": "is required"}}
	}
	return s.adopt(ctx, "remove subject", func() (*domain.Identity, error) {
		return s.backend.RemoveSubject(ctx, subject)
	})
}

func (s *ProfileService) AddCertificate(ctx context.Context, in CertificateInput) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleTutor); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(in.Files))
	for _, f := range in.Files {
		names = append(names, f.Name)
	}
	form := validation.CertificateForm{
		CertName:   strings.TrimSpace(in.CertName),
		SchoolName: strings.TrimSpace(in.SchoolName),
		Year:       strings.TrimSpace(in.Year),
		Files:      names,
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	for _, f := range in.Files {
		if err := validation.CertificateFile(f.Name, f.ContentType, len(f.Data)); err != nil {
			return nil, err
		}
	}
	return s.adopt(ctx, "add certificate", func() (*domain.Identity, error) {
		return s.backend.AddCertificate(ctx, api.CertificateUpload{
			CertName:   form.CertName,
			SchoolName: form.SchoolName,
			Year:       form.Year,
			Files:      in.Files,
		})
	})
}

func (s *ProfileService) AddWorkExperience(ctx context.Context, form validation.ExperienceForm) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleTutor); err != nil {
		return nil, err
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	return s.adopt(ctx, "add work experience", func() (*domain.Identity, error) {
		return s.backend.AddWorkExperience(ctx, api.WorkExperienceInput{
			Role:        strings.TrimSpace(form.Role),
			SchoolName:  strings.TrimSpace(form.SchoolName),
			Period:      strings.TrimSpace(form.Period),
			Description: strings.TrimSpace(form.Description),
		})
	})
}

func (s *ProfileService) DeleteWorkExperience(ctx context.Context, id string) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleTutor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, &validation.Error{Fields: map[string]string{"id": "is required"}}
	}
	return s.adopt(ctx, "delete work experience", func() (*domain.Identity, error) {
		return s.backend.DeleteWorkExperience(ctx, id)
	})
}

func (s *ProfileService) UpdateAvailableDays(ctx context.Context, days []string) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleTutor); err != nil {
		return nil, err
	}
	clean := make([]string, 0, len(days))
	for _, d := range days {
		clean = append(clean, strings.TrimSpace(d))
	}
	if err := validation.Struct(validation.AvailableDaysForm{Days: clean}); err != nil {
		return nil, err
	}
	return s.adopt(ctx, "update available days", func() (*domain.Identity, error) {
		return s.backend.UpdateAvailableDays(ctx, clean)
	})
}

func (s *ProfileService) AddChild(ctx context.Context, form validation.ChildForm) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleParent); err != nil {
		return nil, err
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	return s.adopt(ctx, "add child", func() (*domain.Identity, error) {
		return s.backend.UpdateChildren(ctx, api.ChildInput{
			Name:     strings.TrimSpace(form.Name),
			Age:      form.Age,
			Grade:    strings.TrimSpace(form.Grade),
			School:   strings.TrimSpace(form.School),
			Subjects: form.Subjects,
		})
	})
}

func (s *ProfileService) DeleteChild(ctx context.Context, id string) (*domain.Identity, error) {
	if _, err := requireRole(s.store, domain.RoleParent); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, &validation.Error{Fields: map[string]string{"id": "is required"}}
	}
	return s.adopt(ctx, "delete child", func() (*domain.Identity, error) {
		return s.backend.DeleteChild(ctx, id)
	})
}

// UpdatePicture sube la foto al endpoint del rol de la sesión actual.
func (s *ProfileService) UpdatePicture(ctx context.Context, file api.File) (*domain.Identity, error) {
	identity := s.store.Get()
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	if err := validation.Picture(file.Name, file.ContentType, len(file.Data)); err != nil {
		return nil, err
	}
	return s.adopt(ctx, "update picture", func() (*domain.Identity, error) {
		return s.backend.UpdatePicture(ctx, identity.Role, file)
	})
}

// adopt ejecuta la mutación y guarda el usuario devuelto en la sesión.
func (s *ProfileService) adopt(ctx context.Context, op string, call func() (*domain.Identity, error)) (*domain.Identity, error) {
	user, err := call()
	if err != nil {
		s.logger.Warn("profile mutation failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, errors.New("empty user in response"))
	}
	s.store.Set(ctx, user)
	s.logger.Info("profile updated", zap.String("op", op), zap.String("user_id", user.ID))
	return user.Clone(), nil
}
