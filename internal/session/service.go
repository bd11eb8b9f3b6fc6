package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/security"
	"github.com/vitalixplus/storefront/pkg/validation"
)

const invalidCredentialsMessage = "invalid credentials"

type userDirectory interface {
	ListUsers(ctx context.Context) ([]backend.User, error)
	GetUser(ctx context.Context, id int64) (backend.User, error)
	GetUserPassword(ctx context.Context, id int64) (string, error)
	CreateUser(ctx context.Context, u backend.User) (backend.User, error)
	UpdateUser(ctx context.Context, id int64, u backend.User) (backend.User, error)
}

type sessionStore interface {
	Create(ctx context.Context, s Session) (Session, error)
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context, id string) (Session, error)
	Revoke(ctx context.Context, id string) error
}

// Service resolves who the caller is and what role they act under.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (Session, error)
	Register(ctx context.Context, req RegisterRequest) (Session, error)
	Logout(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Session, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Session, error)
}

// ServiceParams bundles the dependencies of the session service.
type ServiceParams struct {
	Users          userDirectory
	Sessions       sessionStore
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	users       userDirectory
	sessions    sessionStore
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the session service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:       params.Users,
		sessions:    params.Sessions,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, found, err := s.findByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if !found || user.IsDeactivated() {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	stored, err := s.users.GetUserPassword(ctx, user.ID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return Session{}, err
	}
	if !security.MatchesStored(req.Password, stored) {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	sess, err := s.establish(ctx, user)
	if err != nil {
		return Session{}, err
	}
	ctx = s.logg.WithUserID(ctx, sess.UserID)
	ctx = s.logg.WithActorRole(ctx, sess.Role.String())
	s.logg.Info(ctx, "session.login")
	return sess, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	if err := validation.Struct(req); err != nil {
		return Session{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, exists, err := s.findByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if exists {
		return Session{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	password := req.Password
	if s.passwordCfg.HashOnRegister {
		password, err = security.HashPassword(req.Password, s.passwordCfg)
		if err != nil {
			return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
	}

	first, last := splitName(req.Name)
	created, err := s.users.CreateUser(ctx, backend.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Password:     password,
		Address:      strings.TrimSpace(req.Address),
		RegisteredOn: s.now().Format("2006-01-02"),
		Status:       backend.Active(true),
	})
	if err != nil {
		return Session{}, err
	}
	// Some deployments answer a create with a bare message instead of the record.
	if created.ID == 0 {
		user, found, err := s.findByEmail(ctx, email)
		if err != nil {
			return Session{}, err
		}
		if !found {
			return Session{}, pkgerrors.New(pkgerrors.CodeDependency, "created user could not be read back")
		}
		created = user
	}

	sess, err := s.establish(ctx, created)
	if err != nil {
		return Session{}, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, sess.UserID), "session.registered")
	return sess, nil
}

func (s *service) Logout(ctx context.Context, id string) error {
	if err := s.sessions.Revoke(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (Session, error) {
	return s.sessions.Load(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Session, error) {
	sess, err := s.sessions.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if err := validation.Struct(update); err != nil {
		return Session{}, err
	}

	current, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		return Session{}, err
	}
	if name := strings.TrimSpace(update.Name); name != "" {
		current.FirstName, current.LastName = splitName(name)
	}
	if email := strings.TrimSpace(update.Email); email != "" {
		current.Email = strings.ToLower(email)
	}
	if phone := strings.TrimSpace(update.Phone); phone != "" {
		current.Phone = phone
	}
	if address := strings.TrimSpace(update.Address); address != "" {
		current.Address = address
	}
	current.Password = ""

	updated, err := s.users.UpdateUser(ctx, sess.UserID, current)
	if err != nil {
		return Session{}, err
	}
	if updated.ID == 0 {
		updated = current
	}

	sess.Email = updated.Email
	sess.DisplayName = updated.FullName()
	sess.Phone = updated.Phone
	sess.Address = updated.Address
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save session")
	}
	return sess, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (backend.User, bool, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return backend.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return u, true, nil
		}
	}
	return backend.User{}, false, nil
}

func (s *service) establish(ctx context.Context, u backend.User) (Session, error) {
	sess, err := s.sessions.Create(ctx, Session{
		UserID:      u.ID,
		Email:       strings.TrimSpace(u.Email),
		DisplayName: u.FullName(),
		Role:        enums.MapBackendRole(u.Role),
		Phone:       strings.TrimSpace(u.Phone),
		Address:     strings.TrimSpace(u.Address),
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}
	return sess, nil
}
