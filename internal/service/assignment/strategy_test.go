package assignment

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"reviewer-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func team(members ...domain.User) domain.Team {
	return domain.Team{TeamName: "backend", Members: members}
}

func TestSelectReviewersExcludesAuthorAndInactive(t *testing.T) {
	s := NewStrategyWithSource(rand.NewSource(1))
	tm := team(
		domain.NewUser("a", "A", "backend", true),
		domain.NewUser("b", "B", "backend", true),
		domain.NewUser("c", "C", "backend", false),
	)

	for i := 0; i < 50; i++ {
		assert.Equal(t, []string{"b"}, s.SelectReviewers(context.Background(), tm, "a"))
	}
}

func TestSelectReviewersCount(t *testing.T) {
	s := NewStrategyWithSource(rand.NewSource(7))
	ctx := context.Background()

	solo := team(domain.NewUser("x", "X", "backend", true))
	assert.Empty(t, s.SelectReviewers(ctx, solo, "x"))

	big := team(
		domain.NewUser("a", "A", "backend", true),
		domain.NewUser("b", "B", "backend", true),
		domain.NewUser("c", "C", "backend", true),
		domain.NewUser("d", "D", "backend", true),
	)
	for i := 0; i < 100; i++ {
		picked := s.SelectReviewers(ctx, big, "a")
		require.Len(t, picked, 2)
		assert.NotEqual(t, picked[0], picked[1])
		assert.NotContains(t, picked, "a")
	}
}

func TestSelectReviewersIsRoughlyUniform(t *testing.T) {
	s := NewStrategyWithSource(rand.NewSource(42))
	tm := team(
		domain.NewUser("author", "Author", "backend", true),
		domain.NewUser("a", "A", "backend", true),
		domain.NewUser("b", "B", "backend", true),
		domain.NewUser("c", "C", "backend", true),
	)

	const rounds = 6000
	counts := make(map[string]int)
	for i := 0; i < rounds; i++ {
		for _, id := range s.SelectReviewers(context.Background(), tm, "author") {
			counts[id]++
		}
	}

	// Each of three candidates is picked with probability 2/3.
	expected := rounds * 2 / 3
	for _, id := range []string{"a", "b", "c"} {
		assert.InDelta(t, expected, counts[id], float64(expected)*0.1, id)
	}
}

func TestSelectReplacementReviewer(t *testing.T) {
	s := NewStrategyWithSource(rand.NewSource(3))
	ctx := context.Background()
	tm := team(
		domain.NewUser("a", "A", "backend", true),
		domain.NewUser("b", "B", "backend", true),
		domain.NewUser("c", "C", "backend", true),
		domain.NewUser("d", "D", "backend", false),
	)

	id, err := s.SelectReplacementReviewer(ctx, tm, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "c", id)

	_, err = s.SelectReplacementReviewer(ctx, tm, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, domain.ErrNoCandidate)
}

func TestStrategyIsSafeForConcurrentUse(t *testing.T) {
	s := NewStrategy()
	tm := team(
		domain.NewUser("a", "A", "backend", true),
		domain.NewUser("b", "B", "backend", true),
		domain.NewUser("c", "C", "backend", true),
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				picked := s.SelectReviewers(context.Background(), team(tm.Members...), "a")
				assert.Len(t, picked, 2)
			}
		}()
	}
	wg.Wait()
}
