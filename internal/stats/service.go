// Copyright (c) 2026 Inkwell. All rights reserved.

package stats

import (
	"context"
	"log/slog"
)

// Service serves cached snapshots, falling back to a fresh computation on a
// miss. Cache failures degrade to direct reads rather than erroring out.
type Service struct {
	repository Repository
	cache      Cache
	logger     *slog.Logger
}

func NewService(repository Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// Overview returns the aggregate snapshot, at most CacheTTL stale.
func (service *Service) Overview(ctx context.Context) (*Overview, error) {
	if cached, err := service.cache.GetOverview(ctx); err == nil {
		return cached, nil
	}

	overview, err := service.repository.CollectOverview(ctx)
	if err != nil {
		return nil, err
	}

	if err := service.cache.SetOverview(ctx, overview, CacheTTL); err != nil {
		service.logger.Warn("stats_cache_write_failed", slog.Any("error", err))
	}

	return overview, nil
}

// RecentActivity returns the merged activity feed, at most CacheTTL stale.
func (service *Service) RecentActivity(ctx context.Context) ([]ActivityItem, error) {
	if cached, err := service.cache.GetActivity(ctx); err == nil {
		return cached, nil
	}

	items, err := service.repository.RecentActivity(ctx, RecentActivityLimit)
	if err != nil {
		return nil, err
	}

	if err := service.cache.SetActivity(ctx, items, CacheTTL); err != nil {
		service.logger.Warn("stats_cache_write_failed", slog.Any("error", err))
	}

	return items, nil
}
