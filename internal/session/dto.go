package session

import "strings"

// LoginRequest is the credential payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,trimmed_min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Address  string `json:"address" validate:"required,trimmed_min=5,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,trimmed_min=7,max=32"`
}

// ProfileUpdate carries the editable profile fields. Empty fields are left unchanged.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,trimmed_min=2,max=120"`
	Email   string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,trimmed_min=7,max=32"`
	Address string `json:"address,omitempty" validate:"omitempty,trimmed_min=5,max=255"`
}

// splitName turns a display name into the backend's nombre/apellido pair.
// The first word is the first name; the rest is the last name.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
