package team

import (
	"context"
	"testing"

	"reviewer-service/internal/domain"
	"reviewer-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store, store, store, zap.NewNop()), store
}

func TestCreateTeam(t *testing.T) {
	svc, _ := newTestService()

	team, err := svc.CreateTeam(context.Background(), "backend", []domain.User{
		{UserID: "u2", Username: "Bob", IsActive: true},
		{UserID: "u1", Username: "Alice", IsActive: false},
	})
	require.NoError(t, err)

	assert.Equal(t, "backend", team.TeamName)
	require.Len(t, team.Members, 2)
	assert.Equal(t, "u1", team.Members[0].UserID)
	assert.False(t, team.Members[0].IsActive)
	assert.Equal(t, "backend", team.Members[1].TeamName)
}

func TestCreateTeamTwiceConflicts(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, "backend", []domain.User{{UserID: "u1", Username: "Alice", IsActive: true}})
	require.NoError(t, err)

	_, err = svc.CreateTeam(ctx, "backend", []domain.User{{UserID: "u1", Username: "Renamed", IsActive: false}})
	assert.ErrorIs(t, err, domain.ErrTeamExists)

	u1, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u1.Username)
	assert.True(t, u1.IsActive)
}

func TestCreateTeamMovesExistingUsers(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, "backend", []domain.User{
		{UserID: "u1", Username: "Alice", IsActive: true},
		{UserID: "u2", Username: "Bob", IsActive: true},
	})
	require.NoError(t, err)

	team, err := svc.CreateTeam(ctx, "platform", []domain.User{
		{UserID: "u1", Username: "Alice Smith", IsActive: false},
	})
	require.NoError(t, err)
	require.Len(t, team.Members, 1)

	u1, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "platform", u1.TeamName)
	assert.Equal(t, "Alice Smith", u1.Username)
	assert.False(t, u1.IsActive)

	backend, err := svc.GetTeam(ctx, "backend")
	require.NoError(t, err)
	require.Len(t, backend.Members, 1)
	assert.Equal(t, "u2", backend.Members[0].UserID)
}

func TestCreateTeamValidation(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.CreateTeam(ctx, "backend", []domain.User{
		{UserID: "u1", Username: "Alice"},
		{UserID: "u1", Username: "Again"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = store.GetTeam(ctx, "backend")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	team, err := svc.CreateTeam(ctx, "empty", nil)
	require.NoError(t, err)
	assert.Empty(t, team.Members)
}

func TestGetTeamNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetTeam(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTeamKeepsIDsVerbatim(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, "ops", []domain.User{
		{UserID: " u9", Username: " Ivan ", IsActive: true},
	})
	require.NoError(t, err)
	require.Len(t, team.Members, 1)
	assert.Equal(t, " u9", team.Members[0].UserID)
	assert.Equal(t, " Ivan ", team.Members[0].Username)

	_, err = store.GetUser(ctx, "u9")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetTeam(ctx, " ops")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
