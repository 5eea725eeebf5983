package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tutorlink/internal/api"
	"tutorlink/internal/domain"
	"tutorlink/internal/security"
	"tutorlink/internal/validation"
)

// ContactService envía mensajes y reseñas a tutores. Solo los padres pueden hacerlo.
type ContactService struct {
	logger    *zap.Logger
	backend   ContactBackend
	store     SessionStore
	limiter   SubmissionLimiter
	sanitizer *security.Sanitizer
}

func NewContactService(logger *zap.Logger, backend ContactBackend, store SessionStore, limiter SubmissionLimiter, sanitizer *security.Sanitizer) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sanitizer == nil {
		sanitizer = security.NewSanitizer()
	}
	return &ContactService{logger: logger, backend: backend, store: store, limiter: limiter, sanitizer: sanitizer}
}

// ContactPrefill devuelve el formulario precargado con los datos del padre logueado.
func (s *ContactService) ContactPrefill() (validation.ContactForm, error) {
	identity, err := requireRole(s.store, domain.RoleParent)
	if err != nil {
		return validation.ContactForm{}, err
	}
	return validation.ContactForm{FullName: identity.FullName, Email: identity.Email, Phone: identity.Phone}, nil
}

func (s *ContactService) ContactTutor(ctx context.Context, tutorID string, form validation.ContactForm) error {
	identity, err := requireRole(s.store, domain.RoleParent)
	if err != nil {
		return err
	}
	form = validation.ContactForm{
		FullName: s.sanitizer.Text(form.FullName),
		Email:    strings.TrimSpace(form.Email),
		Phone:    s.sanitizer.Text(form.Phone),
		Message:  s.sanitizer.Text(form.Message),
	}
	if err := validation.Struct(form); err != nil {
		return err
	}
	if err := s.allow(ctx, "contact", identity.ID); err != nil {
		return err
	}

	req := api.ContactRequest{
		TutorID:  strings.TrimSpace(tutorID),
		Message:  form.Message,
		FullName: form.FullName,
		Email:    form.Email,
		Phone:    form.Phone,
	}
	if err := s.backend.ContactTutor(ctx, req); err != nil {
		return fmt.Errorf("contact tutor: %w", err)
	}
	s.logger.Info("tutor contacted", zap.String("tutor_id", req.TutorID), zap.String("user_id", identity.ID))
	return nil
}

func (s *ContactService) AddReview(ctx context.Context, tutorID string, form validation.ReviewForm) error {
	identity, err := requireRole(s.store, domain.RoleParent)
	if err != nil {
		return err
	}
	form.Comment = s.sanitizer.Text(form.Comment)
	if err := validation.Struct(form); err != nil {
		return err
	}
	if err := s.allow(ctx, "review", identity.ID); err != nil {
		return err
	}

	req := api.ReviewRequest{
		Rating:  form.Rating,
		Comment: form.Comment,
		TutorID: strings.TrimSpace(tutorID),
		UserID:  identity.ID,
	}
	if err := s.backend.AddReview(ctx, req); err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	s.logger.Info("review submitted", zap.String("tutor_id", req.TutorID), zap.Int("rating", req.Rating))
	return nil
}

func (s *ContactService) allow(ctx context.Context, kind, userID string) error {
	if s.limiter == nil {
		return nil
	}
	if !s.limiter.Allow(ctx, kind+":"+userID) {
		s.logger.Warn("submission rate limited", zap.String("kind", kind), zap.String("user_id", userID))
		return ErrRateLimited
	}
	return nil
}
