package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalixplus/storefront/pkg/backend"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
)

type stubDirectory struct {
	users      []backend.User
	branches   []backend.Branch
	drivers    []backend.Driver
	assistants []backend.Assistant

	createdUsers    []backend.User
	updatedUsers    []backend.User
	createdBranches []backend.Branch
	updatedBranches []backend.Branch
	createdDrivers  []backend.Driver
	createdAssists  []backend.Assistant
	toggled         []string
	searched        []string
}

func notFound(kind string, id int64) error {
	return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %d not found", kind, id)
}

func (s *stubDirectory) ListUsers(context.Context) ([]backend.User, error) { return s.users, nil }

func (s *stubDirectory) GetUser(_ context.Context, id int64) (backend.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return backend.User{}, notFound("user", id)
}

func (s *stubDirectory) CreateUser(_ context.Context, u backend.User) (backend.User, error) {
	s.createdUsers = append(s.createdUsers, u)
	u.ID = 77
	return u, nil
}

func (s *stubDirectory) UpdateUser(_ context.Context, id int64, u backend.User) (backend.User, error) {
	s.updatedUsers = append(s.updatedUsers, u)
	return u, nil
}

func (s *stubDirectory) ToggleUserStatus(_ context.Context, id int64) error {
	s.toggled = append(s.toggled, "user")
	return nil
}

func (s *stubDirectory) ListBranches(context.Context) ([]backend.Branch, error) {
	return s.branches, nil
}

func (s *stubDirectory) GetBranch(_ context.Context, id int64) (backend.Branch, error) {
	for _, b := range s.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return backend.Branch{}, notFound("branch", id)
}

func (s *stubDirectory) SearchBranches(_ context.Context, name string) ([]backend.Branch, error) {
	s.searched = append(s.searched, name)
	return s.branches[:1], nil
}

func (s *stubDirectory) CreateBranch(_ context.Context, b backend.Branch) (backend.Branch, error) {
	s.createdBranches = append(s.createdBranches, b)
	b.ID = 30
	return b, nil
}

func (s *stubDirectory) UpdateBranch(_ context.Context, id int64, b backend.Branch) (backend.Branch, error) {
	s.updatedBranches = append(s.updatedBranches, b)
	return b, nil
}

func (s *stubDirectory) ToggleBranchStatus(context.Context, int64) error {
	s.toggled = append(s.toggled, "branch")
	return nil
}

func (s *stubDirectory) ListDrivers(context.Context) ([]backend.Driver, error) {
	return s.drivers, nil
}

func (s *stubDirectory) GetDriver(_ context.Context, id int64) (backend.Driver, error) {
	for _, d := range s.drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return backend.Driver{}, notFound("driver", id)
}

func (s *stubDirectory) CreateDriver(_ context.Context, d backend.Driver) (backend.Driver, error) {
	s.createdDrivers = append(s.createdDrivers, d)
	d.ID = 40
	return d, nil
}

func (s *stubDirectory) UpdateDriver(_ context.Context, id int64, d backend.Driver) (backend.Driver, error) {
	return d, nil
}

func (s *stubDirectory) ToggleDriverStatus(context.Context, int64) error {
	s.toggled = append(s.toggled, "driver")
	return nil
}

func (s *stubDirectory) ListAssistants(context.Context) ([]backend.Assistant, error) {
	return s.assistants, nil
}

func (s *stubDirectory) GetAssistant(_ context.Context, id int64) (backend.Assistant, error) {
	for _, a := range s.assistants {
		if a.ID == id {
			return a, nil
		}
	}
	return backend.Assistant{}, notFound("assistant", id)
}

func (s *stubDirectory) CreateAssistant(_ context.Context, a backend.Assistant) (backend.Assistant, error) {
	s.createdAssists = append(s.createdAssists, a)
	a.ID = 50
	return a, nil
}

func (s *stubDirectory) UpdateAssistant(_ context.Context, id int64, a backend.Assistant) (backend.Assistant, error) {
	return a, nil
}

func (s *stubDirectory) ToggleAssistantStatus(context.Context, int64) error {
	s.toggled = append(s.toggled, "assistant")
	return nil
}

func fixture() *stubDirectory {
	return &stubDirectory{
		users: []backend.User{
			{ID: 1, FirstName: "Ana", LastName: "Ruiz", Email: "ana@vitalix.co", Password: "secret", Status: backend.Active(true)},
			{ID: 2, FirstName: "Luis", LastName: "Gomez", Email: "luis@vitalix.co", Status: backend.Active(false)},
			{ID: 3, FirstName: "Marta", LastName: "Diaz", Email: "marta@vitalix.co"},
		},
		branches: []backend.Branch{
			{ID: 10, Name: "Centro", Address: "Calle 10 # 4-20", City: "Cali", OpensAt: "08:00:00", ClosesAt: "20:00:00", Status: backend.Active(true)},
			{ID: 11, Name: "Norte", Address: "Av 6N # 23-10", City: "Cali", Status: backend.Active(false)},
		},
		drivers: []backend.Driver{
			{ID: 5, FirstName: "Pedro", LastName: "Lopez", Plate: "ABC123", BranchID: 10, Status: backend.Active(true)},
			{ID: 6, FirstName: "Juan", LastName: "Perez", Plate: "XYZ987", BranchID: 10, Status: backend.Active(false)},
		},
		assistants: []backend.Assistant{
			{ID: 8, FirstName: "Laura", LastName: "Mora", BranchID: 10, Status: backend.Active(true)},
		},
	}
}

func newTestService(t *testing.T, dir *stubDirectory) *service {
	t.Helper()
	svc, err := NewService(dir, logger.Nop())
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }
	return s
}

func userIDs(users []backend.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, logger.Nop())
	require.Error(t, err)
	_, err = NewService(fixture(), nil)
	require.Error(t, err)
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, f)

	f, err = ParseStatusFilter(" ALL ")
	require.NoError(t, err)
	assert.Equal(t, StatusAll, f)

	_, err = ParseStatusFilter("deleted")
	require.Error(t, err)
}

func TestListUsersFiltersByStatusAndSearch(t *testing.T) {
	svc := newTestService(t, fixture())
	ctx := context.Background()

	active, err := svc.ListUsers(ctx, StatusActive, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, userIDs(active))
	assert.Empty(t, active[0].Password)

	inactive, err := svc.ListUsers(ctx, StatusInactive, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, userIDs(inactive))

	found, err := svc.ListUsers(ctx, StatusAll, "MARTA@")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, userIDs(found))
}

func TestGetUserStripsPassword(t *testing.T) {
	svc := newTestService(t, fixture())
	u, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, u.Password)

	_, err = svc.GetUser(context.Background(), 99)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateUser(t *testing.T) {
	dir := fixture()
	svc := newTestService(t, dir)

	created, err := svc.CreateUser(context.Background(), UserInput{
		FirstName: " Sofia ",
		LastName:  "Vargas",
		Email:     "Sofia@Vitalix.co",
		Phone:     "3001234567",
		Password:  "hunter22",
		Role:      "AUXILIAR",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)
	assert.Empty(t, created.Password)

	require.Len(t, dir.createdUsers, 1)
	sent := dir.createdUsers[0]
	assert.Equal(t, "Sofia", sent.FirstName)
	assert.Equal(t, "sofia@vitalix.co", sent.Email)
	assert.Equal(t, "hunter22", sent.Password)
	assert.Equal(t, "2026-03-04", sent.RegisteredOn)
	assert.True(t, sent.IsActive())
}

func TestCreateUserRejections(t *testing.T) {
	cases := []struct {
		name  string
		input UserInput
		code  pkgerrors.Code
	}{
		{"bad email", UserInput{FirstName: "Sofia", Email: "nope", Password: "hunter22"}, pkgerrors.CodeValidation},
		{"missing password", UserInput{FirstName: "Sofia", Email: "s@vitalix.co"}, pkgerrors.CodeValidation},
		{"short phone", UserInput{FirstName: "Sofia", Email: "s@vitalix.co", Password: "hunter22", Phone: "123"}, pkgerrors.CodeValidation},
		{"duplicate email", UserInput{FirstName: "Ana", Email: "ANA@vitalix.co", Password: "hunter22"}, pkgerrors.CodeConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := fixture()
			svc := newTestService(t, dir)
			_, err := svc.CreateUser(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, pkgerrors.CodeOf(err))
			assert.Empty(t, dir.createdUsers)
		})
	}
}

func TestUpdateUserKeepsRoleWhenBlank(t *testing.T) {
	dir := fixture()
	dir.users[0].Role = "ADMIN"
	svc := newTestService(t, dir)

	updated, err := svc.UpdateUser(context.Background(), 1, UserInput{
		FirstName: "Ana Maria",
		Email:     "ana@vitalix.co",
		Address:   "Carrera 5 # 10-11",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.FirstName)
	assert.Empty(t, updated.Password)

	require.Len(t, dir.updatedUsers, 1)
	assert.Equal(t, "ADMIN", dir.updatedUsers[0].Role)
	assert.Empty(t, dir.updatedUsers[0].Password)
}

func TestListBranchesSearchesBackend(t *testing.T) {
	dir := fixture()
	svc := newTestService(t, dir)

	all, err := svc.ListBranches(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, dir.searched)

	found, err := svc.ListBranches(context.Background(), " Centro ")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, []string{"Centro"}, dir.searched)
}

func TestCreateBranchNormalizesHours(t *testing.T) {
	dir := fixture()
	svc := newTestService(t, dir)

	created, err := svc.CreateBranch(context.Background(), BranchInput{
		Name:     "Sur",
		Address:  "Calle 5 # 66-12",
		City:     "Cali",
		OpensAt:  "07:30",
		ClosesAt: "21:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), created.ID)
	require.Len(t, dir.createdBranches, 1)
	assert.Equal(t, "07:30:00", dir.createdBranches[0].OpensAt)
	assert.Equal(t, "21:00:00", dir.createdBranches[0].ClosesAt)
	assert.True(t, dir.createdBranches[0].IsActive())

	_, err = svc.CreateBranch(context.Background(), BranchInput{
		Name: "Sur", Address: "Calle 5 # 66-12", City: "Cali", OpensAt: "25:99",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateBranchKeepsStatus(t *testing.T) {
	dir := fixture()
	svc := newTestService(t, dir)

	_, err := svc.UpdateBranch(context.Background(), 11, BranchInput{
		Name: "Norte 2", Address: "Av 6N # 23-10", City: "Cali",
	})
	require.NoError(t, err)
	require.Len(t, dir.updatedBranches, 1)
	assert.Equal(t, int64(11), dir.updatedBranches[0].ID)
	assert.False(t, dir.updatedBranches[0].IsActive())
}

func TestDrivers(t *testing.T) {
	dir := fixture()
	svc := newTestService(t, dir)
	ctx := context.Background()

	active, err := svc.ListDrivers(ctx, StatusActive, "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(5), active[0].ID)

	found, err := svc.ListDrivers(ctx, StatusAll, "perez")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(6), found[0].ID)

	created, err := svc.CreateDriver(ctx, DriverInput{
		FirstName: "Camilo", LastName: "Rios", Phone: "3109876543", Plate: "qwe45f", BranchID: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), created.ID)
	assert.Equal(t, "QWE45F", dir.createdDrivers[0].Plate)

	_, err = svc.CreateDriver(ctx, DriverInput{
		FirstName: "Camilo", LastName: "Rios", Phone: "3109876543", Plate: "QWE45F", BranchID: 99,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Len(t, dir.createdDrivers, 1)

	require.NoError(t, svc.ToggleDriver(ctx, 5))
}

func TestAssistants(t *testing.T) {
	dir := fixture()
	svc := newTestService(t, dir)
	ctx := context.Background()

	found, err := svc.ListAssistants(ctx, StatusAll, "mora")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.CreateAssistant(ctx, AssistantInput{FirstName: "X", LastName: "Y", Phone: "3001112233", BranchID: 10})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	created, err := svc.CreateAssistant(ctx, AssistantInput{FirstName: "Nora", LastName: "Paz", Phone: "3001112233", BranchID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(50), created.ID)

	updated, err := svc.UpdateAssistant(ctx, 8, AssistantInput{FirstName: "Laura", LastName: "Mora", Phone: "3001112233", BranchID: 10})
	require.NoError(t, err)
	assert.True(t, updated.IsActive())

	require.NoError(t, svc.ToggleAssistant(ctx, 8))
	require.NoError(t, svc.ToggleUser(ctx, 1))
	require.NoError(t, svc.ToggleBranch(ctx, 10))
	assert.Equal(t, []string{"assistant", "user", "branch"}, dir.toggled)
}
