package api

import (
	"context"
	"net/http"
	"net/url"

	"tutorlink/internal/domain"
)

type ParentProfileUpdate struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	About    string `json:"about"`
}

type ChildInput struct {
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Grade    string   `json:"grade"`
	School   string   `json:"school"`
	Subjects []string `json:"subjects"`
}

func (c *Client) UpdateParentProfile(ctx context.Context, in ParentProfileUpdate) (*domain.Identity, error) {
	return c.mutate(ctx, http.MethodPut, "/parent/update-profile", "", in)
}

func (c *Client) UpdateChildren(ctx context.Context, in ChildInput) (*domain.Identity, error) {
	if in.Subjects == nil {
		in.Subjects = []string{}
	}
	return c.mutate(ctx, http.MethodPut, "/parent/update-children", "", in)
}

func (c *Client) DeleteChild(ctx context.Context, id string) (*domain.Identity, error) {
	path := "/parent/delete-child/" + url.PathEscape(id)
	return c.mutate(ctx, http.MethodDelete, path, "/parent/delete-child/:id", nil)
}
