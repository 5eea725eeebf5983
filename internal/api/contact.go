package api

import (
	"context"
	"net/http"
)

type ContactRequest struct {
	TutorID  string `json:"tutorId"`
	Message  string `json:"message"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	TutorID string `json:"tutorId"`
	UserID  string `json:"userId"`
}

// ContactTutor envía el mensaje al tutor. No devuelve estado.
func (c *Client) ContactTutor(ctx context.Context, in ContactRequest) error {
	req, err := jsonRequest(http.MethodPost, "/contact/contact-tutor", "", in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

func (c *Client) AddReview(ctx context.Context, in ReviewRequest) error {
	req, err := jsonRequest(http.MethodPost, "/reviews/add-parent-review", "", in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}
