package service

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbiddenRole    = errors.New("operation not allowed for this role")
	ErrRateLimited      = errors.New("too many submissions, try again later")
)
