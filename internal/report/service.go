package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type ReadModel interface {
	Totals(ctx context.Context) (*Totals, error)
	RecentAssignments(ctx context.Context, limit int) ([]*RecentAssignment, error)
	CategoryDistribution(ctx context.Context) ([]*CategoryDistribution, error)
	DepartmentDistribution(ctx context.Context) ([]*DepartmentDistribution, error)
}

type Service struct {
	repo   ReadModel
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewService(repo ReadModel, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// cached serves key from the cache when possible. Cache failures are logged and the read model
// answers instead.
func cached[T any](ctx context.Context, s *Service, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if s.ttl > 0 {
		hit, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			s.logger.Warn("report cache read failed", "key", key, "error", err)
		} else if hit {
			return out, nil
		}
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			s.logger.Warn("report cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

func (s *Service) GetTotals(ctx context.Context) (*Totals, error) {
	return cached(ctx, s, "totals", func(ctx context.Context) (*Totals, error) {
		t, err := s.repo.Totals(ctx)
		if err != nil {
			return nil, fmt.Errorf("read totals: %w", err)
		}
		return t, nil
	})
}

// GetRecentAssignments returns the newest assignments; limit defaults to 10 and is capped at 100.
func (s *Service) GetRecentAssignments(ctx context.Context, limit int) ([]*RecentAssignment, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	return cached(ctx, s, fmt.Sprintf("recent:%d", limit), func(ctx context.Context) ([]*RecentAssignment, error) {
		rows, err := s.repo.RecentAssignments(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("read recent assignments: %w", err)
		}
		return rows, nil
	})
}

func (s *Service) GetCategoryDistribution(ctx context.Context) ([]*CategoryDistribution, error) {
	return cached(ctx, s, "categories", func(ctx context.Context) ([]*CategoryDistribution, error) {
		rows, err := s.repo.CategoryDistribution(ctx)
		if err != nil {
			return nil, fmt.Errorf("read category distribution: %w", err)
		}
		for _, row := range rows {
			row.UtilizationRatio = ratio(row.Assigned, row.Total)
		}
		return rows, nil
	})
}

func (s *Service) GetDepartmentDistribution(ctx context.Context) ([]*DepartmentDistribution, error) {
	return cached(ctx, s, "departments", func(ctx context.Context) ([]*DepartmentDistribution, error) {
		rows, err := s.repo.DepartmentDistribution(ctx)
		if err != nil {
			return nil, fmt.Errorf("read department distribution: %w", err)
		}
		for _, row := range rows {
			row.Ratio = ratio(row.ActiveAssignments, row.ActivePersonnel)
		}
		return rows, nil
	})
}
