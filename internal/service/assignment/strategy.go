package assignment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"reviewer-service/internal/domain"
)

// Strategy implements reviewer selection algorithms. Selection is uniform
// over the eligible members; the generator is shared between requests and
// guarded by a mutex.
type Strategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStrategy creates a new assignment strategy
func NewStrategy() *Strategy {
	return NewStrategyWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewStrategyWithSource creates a strategy with a fixed source, for tests
func NewStrategyWithSource(src rand.Source) *Strategy {
	return &Strategy{rng: rand.New(src)}
}

// SelectReviewers selects up to domain.MaxReviewers active reviewers from
// team, excluding the author. An empty result is not an error.
func (s *Strategy) SelectReviewers(
	ctx context.Context,
	team domain.Team,
	authorID string,
) []string {
	candidates := team.EligibleMembers(authorID)
	return s.sample(candidates, domain.MaxReviewers)
}

// SelectReplacementReviewer picks one active member of team that is not in
// excludeUserIDs.
func (s *Strategy) SelectReplacementReviewer(
	ctx context.Context,
	team domain.Team,
	excludeUserIDs []string,
) (string, error) {
	candidates := team.EligibleMembers(excludeUserIDs...)
	if len(candidates) == 0 {
		return "", domain.ErrNoCandidate
	}
	return s.sample(candidates, 1)[0], nil
}

// sample draws min(k, len(candidates)) distinct users with a partial
// Fisher-Yates shuffle. candidates is reordered in place.
func (s *Strategy) sample(candidates []domain.User, k int) []string {
	if k > len(candidates) {
		k = len(candidates)
	}

	s.mu.Lock()
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	s.mu.Unlock()

	picked := make([]string, k)
	for i := 0; i < k; i++ {
		picked[i] = candidates[i].UserID
	}
	return picked
}
