// Package memory keeps the whole domain in process memory. It implements the
// same repository interfaces and transaction semantics as the PostgreSQL
// repositories and backs the "memory" storage driver and the test suites.
package memory

import (
	"context"
	"sync"
	"time"

	"reviewer-service/internal/domain"
	"reviewer-service/internal/repository"
)

var (
	_ repository.TeamRepository  = (*Store)(nil)
	_ repository.UserRepository  = (*Store)(nil)
	_ repository.PRRepository    = (*Store)(nil)
	_ repository.StatsRepository = (*Store)(nil)
)

type txKey struct{}

type teamRow struct {
	createdAt time.Time
	updatedAt time.Time
}

type state struct {
	teams map[string]teamRow
	users map[string]domain.User
	prs   map[string]domain.PullRequest
}

func newState() *state {
	return &state{
		teams: make(map[string]teamRow),
		users: make(map[string]domain.User),
		prs:   make(map[string]domain.PullRequest),
	}
}

func (s *state) clone() *state {
	out := &state{
		teams: make(map[string]teamRow, len(s.teams)),
		users: make(map[string]domain.User, len(s.users)),
		prs:   make(map[string]domain.PullRequest, len(s.prs)),
	}
	for k, v := range s.teams {
		out.teams[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.prs {
		out.prs[k] = v.Clone()
	}
	return out
}

// Store serializes transactions under one mutex. A transaction works on a
// private copy of the state that replaces the shared one only on commit.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// Do runs fn in a transaction. Nested calls join the outer transaction.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, working)); err != nil {
		return err
	}
	s.state = working
	return nil
}

// view runs fn against the transaction state in ctx or, outside a
// transaction, against the shared state under the lock. Writers validate
// before mutating, so a failed call outside a transaction leaves no trace.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}
