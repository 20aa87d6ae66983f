package user

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"reviewer-service/internal/domain"
	"reviewer-service/internal/repository/memory"
	"reviewer-service/internal/service/assignment"
	"reviewer-service/internal/service/pullrequest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]domain.User),
	}
}

func (r *fakeUserRepo) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if user, ok := r.users[userID]; ok {
		return user, nil
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user domain.User) error {
	if _, ok := r.users[user.UserID]; !ok {
		return domain.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.UserID] = user
	return nil
}

func (r *fakeUserRepo) DeactivateTeamMembers(ctx context.Context, teamName string) (int, error) {
	changed := 0
	for id, user := range r.users {
		if user.TeamName != teamName || !user.IsActive {
			continue
		}
		user.IsActive = false
		r.users[id] = user
		changed++
	}
	return changed, nil
}

func (r *fakeUserRepo) GetTeam(ctx context.Context, teamName string) (domain.Team, error) {
	team := domain.Team{TeamName: teamName}
	for _, user := range r.users {
		if user.TeamName == teamName {
			team.Members = append(team.Members, user)
		}
	}
	if len(team.Members) == 0 {
		return domain.Team{}, domain.ErrNotFound
	}
	return team, nil
}

type fakePRRepo struct {
	prs   map[string]domain.PullRequest
	users *fakeUserRepo
}

func newFakePRRepo(users *fakeUserRepo) *fakePRRepo {
	return &fakePRRepo{
		prs:   make(map[string]domain.PullRequest),
		users: users,
	}
}

func (r *fakePRRepo) GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error) {
	if pr, ok := r.prs[prID]; ok {
		return pr.Clone(), nil
	}
	return domain.PullRequest{}, domain.ErrNotFound
}

func (r *fakePRRepo) GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	result := make([]domain.PullRequest, 0)
	for _, pr := range r.prs {
		if pr.IsReviewerAssigned(userID) {
			result = append(result, pr)
		}
	}
	return result, nil
}

func (r *fakePRRepo) GetOpenPRIDsByReviewerTeam(ctx context.Context, teamName string) ([]string, error) {
	var ids []string
	for id, pr := range r.prs {
		if pr.Status != domain.PRStatusOpen {
			continue
		}
		for _, reviewer := range pr.AssignedReviewers {
			if r.users.users[reviewer].TeamName == teamName {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// fakeReassigner replaces reviewers according to a script keyed by
// "prID/oldUserID"; missing keys mean nobody can take over.
type fakeReassigner struct {
	prs    *fakePRRepo
	script map[string]string
	calls  []string
}

func (f *fakeReassigner) ReassignReviewer(ctx context.Context, prID, oldUserID string) (domain.PullRequest, string, error) {
	key := prID + "/" + oldUserID
	f.calls = append(f.calls, key)

	newUserID, ok := f.script[key]
	if !ok {
		return domain.PullRequest{}, "", fmt.Errorf("%w: pull request %s", domain.ErrNoCandidate, prID)
	}
	pr := f.prs.prs[prID]
	if err := pr.ReplaceReviewer(oldUserID, newUserID); err != nil {
		return domain.PullRequest{}, "", err
	}
	f.prs.prs[prID] = pr
	return pr, newUserID, nil
}

type noopTransactor struct{}

func (noopTransactor) Do(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

func TestBulkDeactivateTeamSkipsReviewsWithoutCandidate(t *testing.T) {
	userRepo := newFakeUserRepo()
	prRepo := newFakePRRepo(userRepo)

	userRepo.users["u1"] = domain.NewUser("u1", "Alice", "backend", true)
	userRepo.users["u2"] = domain.NewUser("u2", "Bob", "backend", true)
	userRepo.users["f1"] = domain.NewUser("f1", "Fiona", "frontend", true)
	userRepo.users["f2"] = domain.NewUser("f2", "Frank", "frontend", true)

	prRepo.prs["pr-1"] = domain.NewPullRequest("pr-1", "Add search", "f1", []string{"u1", "f2"}, time.Now())
	prRepo.prs["pr-2"] = domain.NewPullRequest("pr-2", "Refactor", "f2", []string{"u2"}, time.Now())
	merged := domain.NewPullRequest("pr-3", "Old", "f1", []string{"u1"}, time.Now())
	merged.Merge(time.Now())
	prRepo.prs["pr-3"] = merged

	reassigner := &fakeReassigner{prs: prRepo, script: map[string]string{"pr-1/u1": "u2"}}
	service := NewService(userRepo, userRepo, prRepo, noopTransactor{}, reassigner, zap.NewNop())

	reassignments, err := service.BulkDeactivateTeam(context.Background(), "backend")
	require.NoError(t, err)

	assert.Equal(t, []string{"pr-1/u1", "pr-2/u2"}, reassigner.calls)
	assert.Equal(t, []domain.Reassignment{{PullRequestID: "pr-1", OldUserID: "u1", NewUserID: "u2"}}, reassignments)

	assert.False(t, userRepo.users["u1"].IsActive)
	assert.False(t, userRepo.users["u2"].IsActive)
	assert.True(t, userRepo.users["f1"].IsActive)

	assert.Equal(t, []string{"u2", "f2"}, prRepo.prs["pr-1"].AssignedReviewers)
	assert.Equal(t, []string{"u2"}, prRepo.prs["pr-2"].AssignedReviewers)
	assert.Equal(t, []string{"u1"}, prRepo.prs["pr-3"].AssignedReviewers)
}

type failingReassigner struct{ err error }

func (f failingReassigner) ReassignReviewer(ctx context.Context, prID, oldUserID string) (domain.PullRequest, string, error) {
	return domain.PullRequest{}, "", f.err
}

func TestBulkDeactivateTeamStopsOnUnexpectedError(t *testing.T) {
	userRepo := newFakeUserRepo()
	prRepo := newFakePRRepo(userRepo)
	userRepo.users["u1"] = domain.NewUser("u1", "Alice", "backend", true)
	userRepo.users["u2"] = domain.NewUser("u2", "Bob", "backend", true)
	prRepo.prs["pr-1"] = domain.NewPullRequest("pr-1", "Add search", "u1", []string{"u2"}, time.Now())

	boom := errors.New("boom")
	service := NewService(userRepo, userRepo, prRepo, noopTransactor{}, failingReassigner{err: boom}, zap.NewNop())

	_, err := service.BulkDeactivateTeam(context.Background(), "backend")
	require.ErrorIs(t, err, boom)
	assert.True(t, userRepo.users["u2"].IsActive)
}

func TestBulkDeactivateTeamUnknownTeam(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := NewService(userRepo, userRepo, newFakePRRepo(userRepo), noopTransactor{}, failingReassigner{}, zap.NewNop())

	_, err := service.BulkDeactivateTeam(context.Background(), "ghosts")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetIsActiveAndGetReviews(t *testing.T) {
	userRepo := newFakeUserRepo()
	prRepo := newFakePRRepo(userRepo)
	userRepo.users["u1"] = domain.NewUser("u1", "Alice", "backend", true)
	userRepo.users["u2"] = domain.NewUser("u2", "Bob", "backend", true)
	prRepo.prs["pr-1"] = domain.NewPullRequest("pr-1", "Add search", "u1", []string{"u2"}, time.Now())

	service := NewService(userRepo, userRepo, prRepo, noopTransactor{}, failingReassigner{}, zap.NewNop())
	ctx := context.Background()

	user, err := service.SetIsActive(ctx, "u2", false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Equal(t, "backend", user.TeamName)

	prs, err := service.GetPRsByReviewer(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, "pr-1", prs[0].PullRequestID)

	_, err = service.SetIsActive(ctx, "ghost", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.GetPRsByReviewer(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// newStoreBackedService wires the real pull request service and the in-memory
// store behind the user service.
func newStoreBackedService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	strategy := assignment.NewStrategyWithSource(rand.NewSource(1))
	prService := pullrequest.NewService(store, store, store, strategy, zap.NewNop())
	return NewService(store, store, store, store, prService, zap.NewNop()), store
}

func TestBulkDeactivateTeamAgainstStore(t *testing.T) {
	service, store := newStoreBackedService(t)
	ctx := context.Background()

	require.NoError(t, store.CreateTeam(ctx, domain.NewTeam("backend", nil)))
	require.NoError(t, store.CreateTeam(ctx, domain.NewTeam("frontend", nil)))
	for _, u := range []domain.User{
		domain.NewUser("u1", "Alice", "backend", true),
		domain.NewUser("u2", "Bob", "backend", true),
		domain.NewUser("u3", "Charlie", "backend", true),
		domain.NewUser("f1", "Fiona", "frontend", true),
	} {
		require.NoError(t, store.CreateUser(ctx, u))
	}

	require.NoError(t, store.CreatePR(ctx, domain.NewPullRequest("pr-1", "Add search", "f1", nil, time.Now())))
	require.NoError(t, store.AssignReviewers(ctx, "pr-1", []string{"u1"}))

	reassignments, err := service.BulkDeactivateTeam(ctx, "backend")
	require.NoError(t, err)
	require.Len(t, reassignments, 1)

	// The replacement is drawn before deactivation, so it is a teammate.
	newID := reassignments[0].NewUserID
	assert.Contains(t, []string{"u2", "u3"}, newID)

	pr, err := store.GetPRForUpdate(ctx, "pr-1")
	require.NoError(t, err)
	assert.Equal(t, []string{newID}, pr.AssignedReviewers)

	team, err := store.GetTeam(ctx, "backend")
	require.NoError(t, err)
	for _, m := range team.Members {
		assert.False(t, m.IsActive, m.UserID)
	}

	f1, err := store.GetUser(ctx, "f1")
	require.NoError(t, err)
	assert.True(t, f1.IsActive)
}

func BenchmarkBulkDeactivateTeam(b *testing.B) {
	for i := 0; i < b.N; i++ {
		store := memory.NewStore()
		ctx := context.Background()
		strategy := assignment.NewStrategyWithSource(rand.NewSource(42))
		prService := pullrequest.NewService(store, store, store, strategy, zap.NewNop())
		service := NewService(store, store, store, store, prService, zap.NewNop())

		if err := store.CreateTeam(ctx, domain.NewTeam("backend", nil)); err != nil {
			b.Fatal(err)
		}
		for u := 0; u < 20; u++ {
			id := fmt.Sprintf("u%d", u)
			if err := store.CreateUser(ctx, domain.NewUser(id, fmt.Sprintf("User %d", u), "backend", true)); err != nil {
				b.Fatal(err)
			}
		}

		// Create 50 PRs with two reviewers each.
		for p := 0; p < 50; p++ {
			if _, err := prService.CreatePR(ctx, fmt.Sprintf("pr-%d", p), "Feature", "u0"); err != nil {
				b.Fatal(err)
			}
		}

		if _, err := service.BulkDeactivateTeam(ctx, "backend"); err != nil {
			b.Fatalf("bulk deactivate failed: %v", err)
		}
	}
}
