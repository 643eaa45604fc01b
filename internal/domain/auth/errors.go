package auth

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrInsufficientRole = errors.New("role is not allowed to perform this action")
)
