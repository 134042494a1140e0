package services

import (
	"context"
	"strings"

	"evac-backend/internal/cache"
	"evac-backend/internal/metrics"
	"evac-backend/internal/models"

	"go.uber.org/zap"
)

// SearchService answers cross-event evacuee name searches over a cached read
// model. The cache is filled from the database on a miss and invalidated by
// every write-side service; results can be up to the cache TTL stale.
type SearchService struct {
	Registrations RegistrationRepo
	Cache         cache.Store
	Logger        *zap.Logger
}

func NewSearchService(registrations RegistrationRepo, store cache.Store, logger *zap.Logger) *SearchService {
	return &SearchService{Registrations: registrations, Cache: store, Logger: logger}
}

// SearchByName returns registrations whose merged full name contains the
// query, case-insensitively. A blank query returns the whole read model.
func (s *SearchService) SearchByName(ctx context.Context, query string) ([]models.EvacueeSearchRow, error) {
	rows, hit := s.Cache.Get(ctx)
	if hit {
		metrics.SearchCacheHits.WithLabelValues("hit").Inc()
	} else {
		metrics.SearchCacheHits.WithLabelValues("miss").Inc()
		var err error
		rows, err = s.Registrations.ListForSearch(ctx)
		if err != nil {
			return nil, err
		}
		s.Cache.Set(ctx, rows)
		s.Logger.Debug("search cache refilled", zap.Int("rows", len(rows)))
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows, nil
	}

	matched := make([]models.EvacueeSearchRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.FullName()), query) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}
