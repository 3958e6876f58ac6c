package handler

import (
	"github.com/taskforge/task-manager/internal/core/domain"
)

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=7"`
	Age      int    `json:"age"      validate:"gte=0"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the envelope for registration and login: the redacted user
// plus the session token just issued.
type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
