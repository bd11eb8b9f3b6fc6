package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitalixplus/storefront/pkg/backend"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/validation"
)

type directory interface {
	ListUsers(ctx context.Context) ([]backend.User, error)
	GetUser(ctx context.Context, id int64) (backend.User, error)
	CreateUser(ctx context.Context, u backend.User) (backend.User, error)
	UpdateUser(ctx context.Context, id int64, u backend.User) (backend.User, error)
	ToggleUserStatus(ctx context.Context, id int64) error

	ListBranches(ctx context.Context) ([]backend.Branch, error)
	GetBranch(ctx context.Context, id int64) (backend.Branch, error)
	SearchBranches(ctx context.Context, name string) ([]backend.Branch, error)
	CreateBranch(ctx context.Context, b backend.Branch) (backend.Branch, error)
	UpdateBranch(ctx context.Context, id int64, b backend.Branch) (backend.Branch, error)
	ToggleBranchStatus(ctx context.Context, id int64) error

	ListDrivers(ctx context.Context) ([]backend.Driver, error)
	GetDriver(ctx context.Context, id int64) (backend.Driver, error)
	CreateDriver(ctx context.Context, d backend.Driver) (backend.Driver, error)
	UpdateDriver(ctx context.Context, id int64, d backend.Driver) (backend.Driver, error)
	ToggleDriverStatus(ctx context.Context, id int64) error

	ListAssistants(ctx context.Context) ([]backend.Assistant, error)
	GetAssistant(ctx context.Context, id int64) (backend.Assistant, error)
	CreateAssistant(ctx context.Context, a backend.Assistant) (backend.Assistant, error)
	UpdateAssistant(ctx context.Context, id int64, a backend.Assistant) (backend.Assistant, error)
	ToggleAssistantStatus(ctx context.Context, id int64) error
}

// Service is the back-office CRUD surface over the backend's people and places.
type Service interface {
	ListUsers(ctx context.Context, status StatusFilter, search string) ([]backend.User, error)
	GetUser(ctx context.Context, id int64) (backend.User, error)
	CreateUser(ctx context.Context, input UserInput) (backend.User, error)
	UpdateUser(ctx context.Context, id int64, input UserInput) (backend.User, error)
	ToggleUser(ctx context.Context, id int64) error

	ListBranches(ctx context.Context, search string) ([]backend.Branch, error)
	GetBranch(ctx context.Context, id int64) (backend.Branch, error)
	CreateBranch(ctx context.Context, input BranchInput) (backend.Branch, error)
	UpdateBranch(ctx context.Context, id int64, input BranchInput) (backend.Branch, error)
	ToggleBranch(ctx context.Context, id int64) error

	ListDrivers(ctx context.Context, status StatusFilter, search string) ([]backend.Driver, error)
	GetDriver(ctx context.Context, id int64) (backend.Driver, error)
	CreateDriver(ctx context.Context, input DriverInput) (backend.Driver, error)
	UpdateDriver(ctx context.Context, id int64, input DriverInput) (backend.Driver, error)
	ToggleDriver(ctx context.Context, id int64) error

	ListAssistants(ctx context.Context, status StatusFilter, search string) ([]backend.Assistant, error)
	GetAssistant(ctx context.Context, id int64) (backend.Assistant, error)
	CreateAssistant(ctx context.Context, input AssistantInput) (backend.Assistant, error)
	UpdateAssistant(ctx context.Context, id int64, input AssistantInput) (backend.Assistant, error)
	ToggleAssistant(ctx context.Context, id int64) error
}

type service struct {
	dir  directory
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the back-office service.
func NewService(dir directory, logg *logger.Logger) (Service, error) {
	if dir == nil {
		return nil, fmt.Errorf("backend directory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{dir: dir, logg: logg, now: time.Now}, nil
}

func (s *service) audit(ctx context.Context, event string, id int64) {
	s.logg.Info(s.logg.WithField(ctx, "record_id", id), event)
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func searchTerm(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Users

func (s *service) ListUsers(ctx context.Context, status StatusFilter, search string) ([]backend.User, error) {
	all, err := s.dir.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	term := searchTerm(search)
	out := make([]backend.User, 0, len(all))
	for _, u := range all {
		if status.keep(u.IsActive()) && matches(term, u.FirstName, u.LastName, u.Email) {
			u.Password = ""
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (backend.User, error) {
	u, err := s.dir.GetUser(ctx, id)
	u.Password = ""
	return u, err
}

func (s *service) CreateUser(ctx context.Context, input UserInput) (backend.User, error) {
	if err := validation.Struct(input); err != nil {
		return backend.User{}, err
	}
	if input.Password == "" {
		return backend.User{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"password": "is required"})
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.dir.ListUsers(ctx)
	if err != nil {
		return backend.User{}, err
	}
	for _, u := range existing {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return backend.User{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
	}
	created, err := s.dir.CreateUser(ctx, backend.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Password:     input.Password,
		RegisteredOn: s.now().Format("2006-01-02"),
		Status:       backend.Active(true),
		Role:         strings.TrimSpace(input.Role),
	})
	if err != nil {
		return backend.User{}, err
	}
	created.Password = ""
	s.audit(ctx, "admin.user.created", created.ID)
	return created, nil
}

func (s *service) UpdateUser(ctx context.Context, id int64, input UserInput) (backend.User, error) {
	if err := validation.Struct(input); err != nil {
		return backend.User{}, err
	}
	current, err := s.dir.GetUser(ctx, id)
	if err != nil {
		return backend.User{}, err
	}
	current.FirstName = strings.TrimSpace(input.FirstName)
	current.LastName = strings.TrimSpace(input.LastName)
	current.Email = strings.ToLower(strings.TrimSpace(input.Email))
	current.Phone = strings.TrimSpace(input.Phone)
	current.Address = strings.TrimSpace(input.Address)
	current.Password = input.Password
	if role := strings.TrimSpace(input.Role); role != "" {
		current.Role = role
	}
	updated, err := s.dir.UpdateUser(ctx, id, current)
	if err != nil {
		return backend.User{}, err
	}
	if updated.ID == 0 {
		updated = current
		updated.ID = id
	}
	updated.Password = ""
	s.audit(ctx, "admin.user.updated", id)
	return updated, nil
}

func (s *service) ToggleUser(ctx context.Context, id int64) error {
	if err := s.dir.ToggleUserStatus(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "admin.user.toggled", id)
	return nil
}

// Branches

func (s *service) ListBranches(ctx context.Context, search string) ([]backend.Branch, error) {
	if name := strings.TrimSpace(search); name != "" {
		return s.dir.SearchBranches(ctx, name)
	}
	return s.dir.ListBranches(ctx)
}

func (s *service) GetBranch(ctx context.Context, id int64) (backend.Branch, error) {
	return s.dir.GetBranch(ctx, id)
}

func (s *service) branchFromInput(input BranchInput) (backend.Branch, error) {
	if err := validation.Struct(input); err != nil {
		return backend.Branch{}, err
	}
	opens, err := normalizeClock(input.OpensAt)
	if err != nil {
		return backend.Branch{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"opens_at": err.Error()})
	}
	closes, err := normalizeClock(input.ClosesAt)
	if err != nil {
		return backend.Branch{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"closes_at": err.Error()})
	}
	return backend.Branch{
		Name:     strings.TrimSpace(input.Name),
		Address:  strings.TrimSpace(input.Address),
		City:     strings.TrimSpace(input.City),
		OpensAt:  opens,
		ClosesAt: closes,
	}, nil
}

func (s *service) CreateBranch(ctx context.Context, input BranchInput) (backend.Branch, error) {
	b, err := s.branchFromInput(input)
	if err != nil {
		return backend.Branch{}, err
	}
	b.Status = backend.Active(true)
	created, err := s.dir.CreateBranch(ctx, b)
	if err != nil {
		return backend.Branch{}, err
	}
	s.audit(ctx, "admin.branch.created", created.ID)
	return created, nil
}

func (s *service) UpdateBranch(ctx context.Context, id int64, input BranchInput) (backend.Branch, error) {
	b, err := s.branchFromInput(input)
	if err != nil {
		return backend.Branch{}, err
	}
	current, err := s.dir.GetBranch(ctx, id)
	if err != nil {
		return backend.Branch{}, err
	}
	b.ID = id
	b.Status = current.Status
	updated, err := s.dir.UpdateBranch(ctx, id, b)
	if err != nil {
		return backend.Branch{}, err
	}
	if updated.ID == 0 {
		updated = b
	}
	s.audit(ctx, "admin.branch.updated", id)
	return updated, nil
}

func (s *service) ToggleBranch(ctx context.Context, id int64) error {
	if err := s.dir.ToggleBranchStatus(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "admin.branch.toggled", id)
	return nil
}

// Drivers

func (s *service) ListDrivers(ctx context.Context, status StatusFilter, search string) ([]backend.Driver, error) {
	all, err := s.dir.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	term := searchTerm(search)
	out := make([]backend.Driver, 0, len(all))
	for _, d := range all {
		if status.keep(d.IsActive()) && matches(term, d.FirstName, d.LastName, d.Plate) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *service) GetDriver(ctx context.Context, id int64) (backend.Driver, error) {
	return s.dir.GetDriver(ctx, id)
}

func (s *service) driverFromInput(ctx context.Context, input DriverInput) (backend.Driver, error) {
	if err := validation.Struct(input); err != nil {
		return backend.Driver{}, err
	}
	if err := s.requireBranch(ctx, input.BranchID); err != nil {
		return backend.Driver{}, err
	}
	return backend.Driver{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Plate:     strings.ToUpper(strings.TrimSpace(input.Plate)),
		BranchID:  input.BranchID,
	}, nil
}

func (s *service) CreateDriver(ctx context.Context, input DriverInput) (backend.Driver, error) {
	d, err := s.driverFromInput(ctx, input)
	if err != nil {
		return backend.Driver{}, err
	}
	d.Status = backend.Active(true)
	created, err := s.dir.CreateDriver(ctx, d)
	if err != nil {
		return backend.Driver{}, err
	}
	s.audit(ctx, "admin.driver.created", created.ID)
	return created, nil
}

func (s *service) UpdateDriver(ctx context.Context, id int64, input DriverInput) (backend.Driver, error) {
	d, err := s.driverFromInput(ctx, input)
	if err != nil {
		return backend.Driver{}, err
	}
	current, err := s.dir.GetDriver(ctx, id)
	if err != nil {
		return backend.Driver{}, err
	}
	d.ID = id
	d.Status = current.Status
	updated, err := s.dir.UpdateDriver(ctx, id, d)
	if err != nil {
		return backend.Driver{}, err
	}
	if updated.ID == 0 {
		updated = d
	}
	s.audit(ctx, "admin.driver.updated", id)
	return updated, nil
}

func (s *service) ToggleDriver(ctx context.Context, id int64) error {
	if err := s.dir.ToggleDriverStatus(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "admin.driver.toggled", id)
	return nil
}

// Assistants

func (s *service) ListAssistants(ctx context.Context, status StatusFilter, search string) ([]backend.Assistant, error) {
	all, err := s.dir.ListAssistants(ctx)
	if err != nil {
		return nil, err
	}
	term := searchTerm(search)
	out := make([]backend.Assistant, 0, len(all))
	for _, a := range all {
		if status.keep(a.IsActive()) && matches(term, a.FirstName, a.LastName) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *service) GetAssistant(ctx context.Context, id int64) (backend.Assistant, error) {
	return s.dir.GetAssistant(ctx, id)
}

func (s *service) assistantFromInput(ctx context.Context, input AssistantInput) (backend.Assistant, error) {
	if err := validation.Struct(input); err != nil {
		return backend.Assistant{}, err
	}
	if err := s.requireBranch(ctx, input.BranchID); err != nil {
		return backend.Assistant{}, err
	}
	return backend.Assistant{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		BranchID:  input.BranchID,
	}, nil
}

func (s *service) CreateAssistant(ctx context.Context, input AssistantInput) (backend.Assistant, error) {
	a, err := s.assistantFromInput(ctx, input)
	if err != nil {
		return backend.Assistant{}, err
	}
	a.Status = backend.Active(true)
	created, err := s.dir.CreateAssistant(ctx, a)
	if err != nil {
		return backend.Assistant{}, err
	}
	s.audit(ctx, "admin.assistant.created", created.ID)
	return created, nil
}

func (s *service) UpdateAssistant(ctx context.Context, id int64, input AssistantInput) (backend.Assistant, error) {
	a, err := s.assistantFromInput(ctx, input)
	if err != nil {
		return backend.Assistant{}, err
	}
	current, err := s.dir.GetAssistant(ctx, id)
	if err != nil {
		return backend.Assistant{}, err
	}
	a.ID = id
	a.Status = current.Status
	updated, err := s.dir.UpdateAssistant(ctx, id, a)
	if err != nil {
		return backend.Assistant{}, err
	}
	if updated.ID == 0 {
		updated = a
	}
	s.audit(ctx, "admin.assistant.updated", id)
	return updated, nil
}

func (s *service) ToggleAssistant(ctx context.Context, id int64) error {
	if err := s.dir.ToggleAssistantStatus(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "admin.assistant.toggled", id)
	return nil
}

func (s *service) requireBranch(ctx context.Context, id int64) error {
	if _, err := s.dir.GetBranch(ctx, id); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"branch_id": "does not exist"})
		}
		return err
	}
	return nil
}
