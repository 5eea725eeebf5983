package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"tutorlink/internal/domain"
)

type TutorProfileUpdate struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

type CertificateUpload struct {
	CertName   string
	SchoolName string
	Year       string
	Files      []File
}

type WorkExperienceInput struct {
	Role        string `json:"role"`
	SchoolName  string `json:"schoolName"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// ListTutors trae el catálogo completo; el filtrado ocurre del lado cliente.
func (c *Client) ListTutors(ctx context.Context) ([]domain.Tutor, error) {
	var out []domain.Tutor
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tutor/all"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTutor(ctx context.Context, id string) (*domain.Tutor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("tutor id is required")
	}
	var out domain.Tutor
	req := request{method: http.MethodGet, path: "/tutor/" + url.PathEscape(id), route: "/tutor/:id"}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTutorProfile(ctx context.Context, in TutorProfileUpdate) (*domain.Identity, error) {
	return c.mutate(ctx, http.MethodPut, "/tutor/update-profile", "", in)
}

func (c *Client) AddSubject(ctx context.Context, subject string) (*domain.Identity, error) {
	payload := struct {
		Subject string `json:"subject"`
	}{Subject: strings.TrimSpace(subject)}
	return c.mutate(ctx, http.MethodPut, "/tutor/update-subjects", "", payload)
}

func (c *Client) RemoveSubject(ctx context.Context, subject string) (*domain.Identity, error) {
	path := "/tutor/update-subjects/" + url.PathEscape(subject)
	return c.mutate(ctx, http.MethodDelete, path, "/tutor/update-subjects/:subject", nil)
}

func (c *Client) AddCertificate(ctx context.Context, in CertificateUpload) (*domain.Identity, error) {
	if len(in.Files) == 0 {
		return nil, errors.New("at least one certificate file is required")
	}
	fields := []formField{
		{name: "certName", value: in.CertName},
		{name: "schoolName", value: in.SchoolName},
		{name: "year", value: in.Year},
	}
	req, err := multipartRequest(http.MethodPut, "/tutor/update-certificates", fields, "certificates", in.Files)
	if err != nil {
		return nil, err
	}
	return c.doUser(ctx, req)
}

func (c *Client) AddWorkExperience(ctx context.Context, in WorkExperienceInput) (*domain.Identity, error) {
	return c.mutate(ctx, http.MethodPut, "/tutor/update-work-experiences", "", in)
}

func (c *Client) DeleteWorkExperience(ctx context.Context, id string) (*domain.Identity, error) {
	path := "/tutor/update-work-experiences/" + url.PathEscape(id)
	return c.mutate(ctx, http.MethodDelete, path, "/tutor/update-work-experiences/:id", nil)
}

func (c *Client) UpdateAvailableDays(ctx context.Context, days []string) (*domain.Identity, error) {
	payload := struct {
		AvailableDays []string `json:"availableDays"`
	}{AvailableDays: days}
	return c.mutate(ctx, http.MethodPut, "/tutor/available-days", "", payload)
}

// UpdatePicture sube la foto de perfil al endpoint del rol correspondiente.
func (c *Client) UpdatePicture(ctx context.Context, role domain.Role, file File) (*domain.Identity, error) {
	if !role.Valid() {
		return nil, errors.New("invalid role " + string(role))
	}
	req, err := multipartRequest(http.MethodPut, "/"+string(role)+"/update-picture", nil, "profileImage", []File{file})
	if err != nil {
		return nil, err
	}
	req.route = "/:role/update-picture"
	return c.doUser(ctx, req)
}

// mutate envía payload y devuelve el usuario del sobre { user }.
func (c *Client) mutate(ctx context.Context, method, path, route string, payload any) (*domain.Identity, error) {
	req, err := jsonRequest(method, path, route, payload)
	if err != nil {
		return nil, err
	}
	return c.doUser(ctx, req)
}

func (c *Client) doUser(ctx context.Context, req request) (*domain.Identity, error) {
	var env userEnvelope
	if err := c.do(ctx, req, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, errors.New("response without user")
	}
	return env.User, nil
}
