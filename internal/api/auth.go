package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"tutorlink/internal/domain"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult es la respuesta de /auth/login. Los tokens son opcionales.
type LoginResult struct {
	User         *domain.Identity `json:"user"`
	Token        string           `json:"token,omitempty"`
	RefreshToken string           `json:"refreshToken,omitempty"`
}

type Registration struct {
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type userEnvelope struct {
	User *domain.Identity `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login", "", creds)
	if err != nil {
		return nil, err
	}
	req.skipRefresh = true

	var out LoginResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, errors.New("login response without user")
	}
	return &out, nil
}

// Logout invalida la sesión en el backend. Cualquier 2xx cuenta como éxito.
func (c *Client) Logout(ctx context.Context) error {
	req, err := jsonRequest(http.MethodPost, "/auth/logout", "", struct{}{})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// GetUser devuelve el perfil completo. Acepta tanto el perfil plano como el sobre { user }.
func (c *Client) GetUser(ctx context.Context, id string) (*domain.Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}
	req := request{method: http.MethodGet, path: "/auth/user/" + url.PathEscape(id), route: "/auth/user/:id"}

	var payload struct {
		domain.Identity
		User *domain.Identity `json:"user"`
	}
	if err := c.do(ctx, req, &payload); err != nil {
		return nil, err
	}
	if payload.User != nil {
		return payload.User, nil
	}
	if payload.Identity.ID == "" {
		return nil, errors.New("user response without id")
	}
	identity := payload.Identity
	return &identity, nil
}

func (c *Client) RegisterParent(ctx context.Context, reg Registration) error {
	reg.Role = domain.RoleParent
	return c.register(ctx, "/auth/parent-register", reg)
}

func (c *Client) RegisterTutor(ctx context.Context, reg Registration) error {
	reg.Role = domain.RoleTutor
	return c.register(ctx, "/auth/tutor-register", reg)
}

func (c *Client) register(ctx context.Context, path string, reg Registration) error {
	req, err := jsonRequest(http.MethodPost, path, "", reg)
	if err != nil {
		return err
	}
	req.skipRefresh = true
	return c.do(ctx, req, nil)
}
