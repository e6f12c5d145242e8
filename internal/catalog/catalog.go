package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chuyenmonc1nhuhan/nls/internal/cache"
	"github.com/chuyenmonc1nhuhan/nls/internal/db"
	"github.com/chuyenmonc1nhuhan/nls/internal/nls"
	"go.uber.org/zap"
)

type LoadLookupFunc func(ctx context.Context, logger *zap.Logger) (nls.Lookup, error)

// NewLoadLookup reads the competency table through the redis cache.
// Cache errors are logged and the database is used instead.
func NewLoadLookup(
	listCompetency db.ListCompetencyFunc,
	getRedisFunc cache.GetRedisFunc,
	setRedisFunc cache.SetRedisFunc,
	ttl time.Duration,
) LoadLookupFunc {
	return func(ctx context.Context, logger *zap.Logger) (nls.Lookup, error) {
		redisStrResponse, err := getRedisFunc(ctx, cache.KeyNlsCompetency)
		if err != nil {
			logger.Warn("competency cache read failed", zap.Error(err))
		}
		if err == nil && redisStrResponse != "" {
			lookup := nls.Lookup{}
			if err = json.Unmarshal([]byte(redisStrResponse), &lookup); err == nil {
				return lookup, nil
			}
			logger.Warn("competency cache corrupted", zap.Error(err))
		}

		logger.Debug("no competency data in redis cache")
		rows, err := listCompetency(ctx)
		if err != nil {
			return nil, err
		}
		lookup := nls.Lookup(rows)

		redisStrLookup, err := json.Marshal(lookup)
		if err != nil {
			logger.Warn("competency cache encode failed", zap.Error(err))
			return lookup, nil
		}
		if err = setRedisFunc(ctx, cache.KeyNlsCompetency, redisStrLookup, ttl); err != nil {
			logger.Warn("competency cache write failed", zap.Error(err))
		}
		return lookup, nil
	}
}
