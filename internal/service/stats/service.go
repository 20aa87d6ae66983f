package stats

import (
	"context"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"
)

type statsRepository interface {
	GetStats(ctx context.Context) (domain.Stats, error)
}

// Service aggregates store counters
type Service struct {
	repo       statsRepository
	transactor db.Transactioner
}

func NewService(repo statsRepository, transactor db.Transactioner) *Service {
	return &Service{repo: repo, transactor: transactor}
}

// GetStats reads all counters from one consistent snapshot.
func (s *Service) GetStats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		var err error
		stats, err = s.repo.GetStats(txCtx)
		return err
	})
	if err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}
