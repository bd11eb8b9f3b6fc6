package admin

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
)

// StatusFilter selects records by their soft-delete flag.
type StatusFilter string

const (
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
	StatusAll      StatusFilter = "all"
)

// ParseStatusFilter defaults to active records.
func ParseStatusFilter(value string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return StatusActive, nil
	case StatusActive, StatusInactive, StatusAll:
		return f, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "status must be one of active, inactive, all").
		WithDetails(map[string]any{"field": "status"})
}

func (f StatusFilter) keep(active bool) bool {
	switch f {
	case StatusAll:
		return true
	case StatusInactive:
		return !active
	}
	return active
}

// UserInput is the back-office user form. Password is required on create only.
type UserInput struct {
	FirstName string `json:"first_name" validate:"required,trimmed_min=2,max=80"`
	LastName  string `json:"last_name" validate:"max=80"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,trimmed_min=7,max=32"`
	Address   string `json:"address" validate:"omitempty,trimmed_min=5,max=255"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=6,max=128"`
	Role      string `json:"role,omitempty" validate:"max=40"`
}

// BranchInput is the back-office branch form. Hours accept HH:MM or HH:MM:SS.
type BranchInput struct {
	Name     string `json:"name" validate:"required,trimmed_min=2,max=120"`
	Address  string `json:"address" validate:"required,trimmed_min=5,max=255"`
	City     string `json:"city" validate:"required,trimmed_min=2,max=80"`
	OpensAt  string `json:"opens_at" validate:"omitempty,max=8"`
	ClosesAt string `json:"closes_at" validate:"omitempty,max=8"`
}

// DriverInput is the back-office driver form.
type DriverInput struct {
	FirstName string `json:"first_name" validate:"required,trimmed_min=2,max=80"`
	LastName  string `json:"last_name" validate:"required,max=80"`
	Phone     string `json:"phone" validate:"required,trimmed_min=7,max=32"`
	Plate     string `json:"plate" validate:"required,trimmed_min=5,max=10"`
	BranchID  int64  `json:"branch_id" validate:"gt=0"`
}

// AssistantInput is the back-office assistant form.
type AssistantInput struct {
	FirstName string `json:"first_name" validate:"required,trimmed_min=2,max=80"`
	LastName  string `json:"last_name" validate:"required,max=80"`
	Phone     string `json:"phone" validate:"required,trimmed_min=7,max=32"`
	BranchID  int64  `json:"branch_id" validate:"gt=0"`
}

// normalizeClock turns HH:MM into the backend's HH:MM:SS.
func normalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", value)
}
