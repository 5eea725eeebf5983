package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tutorlink/internal/api"
	"tutorlink/internal/domain"
	"tutorlink/internal/session"
	"tutorlink/internal/validation"
)

// AuthService coordina login, registro y logout con el Session Store.
type AuthService struct {
	logger  *zap.Logger
	backend AuthBackend
	store   SessionStore
	tokens  TokenSaver
}

func NewAuthService(logger *zap.Logger, backend AuthBackend, store SessionStore, tokens TokenSaver) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{logger: logger, backend: backend, store: store, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, form validation.LoginForm) (*domain.Identity, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	res, err := s.backend.Login(ctx, api.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if s.tokens != nil && (res.Token != "" || res.RefreshToken != "") {
		if err := s.tokens.SetTokens(ctx, res.Token, res.RefreshToken); err != nil {
			s.logger.Warn("store tokens failed", zap.Error(err))
		}
	}
	s.store.Set(ctx, res.User)
	s.logger.Info("user logged in", zap.String("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	return res.User.Clone(), nil
}

// Register crea la cuenta. No inicia sesión: el backend responde 201 sin usuario.
func (s *AuthService) Register(ctx context.Context, form validation.RegistrationForm) error {
	form.Email = strings.TrimSpace(form.Email)
	form.FullName = strings.TrimSpace(form.FullName)
	if err := validation.Struct(form); err != nil {
		return err
	}

	reg := api.Registration{FullName: form.FullName, Email: form.Email, Password: form.Password}
	var err error
	switch domain.Role(form.Role) {
	case domain.RoleTutor:
		err = s.backend.RegisterTutor(ctx, reg)
	default:
		err = s.backend.RegisterParent(ctx, reg)
	}
	if err != nil {
		return fmt.Errorf("register %s: %w", form.Role, err)
	}
	s.logger.Info("user registered", zap.String("role", form.Role))
	return nil
}

// Logout cierra la sesión. Si el backend falla, la sesión local sigue activa.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Logout(ctx); err != nil {
		return err
	}
	if s.tokens != nil {
		if err := s.tokens.ClearTokens(ctx); err != nil {
			s.logger.Warn("clear tokens failed", zap.Error(err))
		}
	}
	return nil
}

// Restore se llama una vez al arrancar. Una sesión ausente o vencida no es un error.
func (s *AuthService) Restore(ctx context.Context) error {
	err := s.store.Restore(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrSessionExpired):
		s.logger.Debug("no session to restore", zap.Error(err))
		return nil
	default:
		s.logger.Warn("session restore failed", zap.Error(err))
		return err
	}
}

// Current devuelve la identidad activa o ErrNotAuthenticated.
func (s *AuthService) Current() (*domain.Identity, error) {
	identity := s.store.Get()
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	return identity, nil
}
