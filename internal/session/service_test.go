package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/security"
	"github.com/vitalixplus/storefront/pkg/storage"
)

type stubUsers struct {
	users     []backend.User
	passwords map[int64]string
	listErr   error
	created   *backend.User
	updated   *backend.User
	nextID    int64
}

func (s *stubUsers) ListUsers(context.Context) ([]backend.User, error) {
	return s.users, s.listErr
}

func (s *stubUsers) GetUser(_ context.Context, id int64) (backend.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return backend.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

func (s *stubUsers) GetUserPassword(_ context.Context, id int64) (string, error) {
	p, ok := s.passwords[id]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return p, nil
}

func (s *stubUsers) CreateUser(_ context.Context, u backend.User) (backend.User, error) {
	s.created = &u
	s.nextID++
	u.ID = s.nextID
	s.users = append(s.users, u)
	return u, nil
}

func (s *stubUsers) UpdateUser(_ context.Context, id int64, u backend.User) (backend.User, error) {
	u.ID = id
	s.updated = &u
	return u, nil
}

func newTestService(t *testing.T, users *stubUsers) (Service, *Manager) {
	t.Helper()
	manager, err := NewManager(storage.NewMemoryStore(), 0)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Users:          users,
		Sessions:       manager,
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Logger:         logger.Nop(),
	})
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC) }
	return svc, manager
}

func seededUsers() *stubUsers {
	inactive := backend.Active(false)
	return &stubUsers{
		users: []backend.User{
			{ID: 1, FirstName: "Ana", LastName: "Gómez", Email: "Ana@Vitalix.co", Phone: "3001112233", Address: "Calle 1 # 2-3", Status: backend.Active(true), Role: "ADMINISTRADOR"},
			{ID: 2, FirstName: "Luis", LastName: "Pérez", Email: "luis@vitalix.co", Role: "REPARTIDOR"},
			{ID: 3, FirstName: "Old", Email: "old@vitalix.co", Status: inactive},
		},
		passwords: map[int64]string{1: "secreto", 2: "clave123", 3: "old"},
		nextID:    10,
	}
}

func TestLoginMapsRoleAndPersists(t *testing.T) {
	svc, manager := newTestService(t, seededUsers())
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginRequest{Email: " ana@vitalix.co ", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.UserID)
	assert.Equal(t, enums.RoleAdmin, sess.Role)
	assert.Equal(t, "Ana Gómez", sess.DisplayName)
	assert.NotEmpty(t, sess.ID)

	stored, err := manager.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Email, stored.Email)

	driver, err := svc.Login(ctx, LoginRequest{Email: "luis@vitalix.co", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleDriver, driver.Role)
}

func TestLoginRejections(t *testing.T) {
	cases := []struct {
		name string
		req  LoginRequest
	}{
		{name: "wrong password", req: LoginRequest{Email: "ana@vitalix.co", Password: "nope"}},
		{name: "unknown email", req: LoginRequest{Email: "ghost@vitalix.co", Password: "secreto"}},
		{name: "inactive user", req: LoginRequest{Email: "old@vitalix.co", Password: "old"}},
		{name: "empty password", req: LoginRequest{Email: "ana@vitalix.co"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, seededUsers())
			_, err := svc.Login(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
			assert.Equal(t, invalidCredentialsMessage, pkgerrors.As(err).Message())
		})
	}
}

func TestLoginVerifiesArgonHashes(t *testing.T) {
	users := seededUsers()
	svc, _ := newTestService(t, users)
	hash, err := security.HashPassword("hashed-secret", svc.(*service).passwordCfg)
	require.NoError(t, err)
	users.passwords[1] = hash

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@vitalix.co", Password: "hashed-secret"})
	require.NoError(t, err)
}

func TestLoginBackendFailureIsDependencyError(t *testing.T) {
	users := seededUsers()
	users.listErr = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("refused"), "backend unavailable")
	svc, _ := newTestService(t, users)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ana@vitalix.co", Password: "secreto"})
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	users := seededUsers()
	svc, _ := newTestService(t, users)

	sess, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "María José Ruiz",
		Email:    "Maria@Vitalix.co",
		Address:  "Carrera 7 # 12-40",
		Password: "abcdef",
	})
	require.NoError(t, err)
	require.NotNil(t, users.created)
	assert.Equal(t, "María", users.created.FirstName)
	assert.Equal(t, "José Ruiz", users.created.LastName)
	assert.Equal(t, "maria@vitalix.co", users.created.Email)
	assert.Equal(t, "2026-05-02", users.created.RegisteredOn)
	assert.True(t, users.created.IsActive())
	assert.Equal(t, "abcdef", users.created.Password)

	assert.Equal(t, int64(11), sess.UserID)
	assert.Equal(t, enums.RoleUser, sess.Role)
	assert.Equal(t, "María José Ruiz", sess.DisplayName)
}

func TestRegisterRejectsDuplicateAndInvalid(t *testing.T) {
	svc, _ := newTestService(t, seededUsers())

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ana", Email: "ANA@vitalix.co", Address: "Calle 1 # 2-3", Password: "abcdef"})
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "Ana", Email: "not-an-email", Address: "Cll", Password: "abc"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "address")
}

func TestLogoutAndGet(t *testing.T) {
	svc, _ := newTestService(t, seededUsers())
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginRequest{Email: "ana@vitalix.co", Password: "secreto"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	_, err = svc.Get(ctx, sess.ID)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	require.NoError(t, svc.Logout(ctx, sess.ID))
}

func TestUpdateProfileRefreshesMirror(t *testing.T) {
	users := seededUsers()
	svc, manager := newTestService(t, users)
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginRequest{Email: "ana@vitalix.co", Password: "secreto"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, sess.ID, ProfileUpdate{Phone: "3209998877", Address: "Avenida 68 # 10-01"})
	require.NoError(t, err)
	assert.Equal(t, "3209998877", updated.Phone)
	assert.Equal(t, "Avenida 68 # 10-01", updated.Address)
	assert.Equal(t, "Ana Gómez", updated.DisplayName)

	require.NotNil(t, users.updated)
	assert.Equal(t, "Ana@Vitalix.co", users.updated.Email)
	assert.Empty(t, users.updated.Password)
	assert.Equal(t, "ADMINISTRADOR", users.updated.Role)

	stored, err := manager.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "3209998877", stored.Phone)

	_, err = svc.UpdateProfile(ctx, sess.ID, ProfileUpdate{Phone: "123"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestManagerTTLAndValidation(t *testing.T) {
	_, err := NewManager(nil, 0)
	assert.Error(t, err)
	_, err = NewManager(storage.NewMemoryStore(), -time.Second)
	assert.Error(t, err)

	manager, err := NewManager(storage.NewMemoryStore(), time.Hour)
	require.NoError(t, err)
	_, err = manager.Load(context.Background(), "")
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Carlos   Andrés  Díaz ")
	assert.Equal(t, "Carlos", first)
	assert.Equal(t, "Andrés Díaz", last)
	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
}
