package connector_repository

import (
	"context"
	"errors"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewSqlGetOwnerByUID(cfg *config.Config, database *gorm.DB) (GetOwnerByUID, error) {

	return func(ctx context.Context, log *logrus.Entry, uid uuid.UUID) (domain.Owner, error) {
		return lookupOwner(ctx, cfg, database, log, "uid = ?", uid.String())
	}, nil
}

func NewSqlGetOwnerByID(cfg *config.Config, database *gorm.DB) (GetOwnerByID, error) {

	return func(ctx context.Context, log *logrus.Entry, id domain.OwnerID) (domain.Owner, error) {
		if id == "" {
			return domain.Owner{}, InvalidOwnerError
		}
		return lookupOwner(ctx, cfg, database, log, "id = ?", string(id))
	}, nil
}

func lookupOwner(ctx context.Context, cfg *config.Config, database *gorm.DB, log *logrus.Entry, where string, arg string) (domain.Owner, error) {
	callDurationTimer := prometheus.NewTimer(metrics.sqlLookupOwnerDuration)
	defer callDurationTimer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	var model Owner
	err := database.WithContext(ctx).Where(where, arg).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Owner{}, NotFoundError
		}

		logger.LogWithError(log, "SQL query failed", err)
		return domain.Owner{}, err
	}

	uid, err := uuid.Parse(model.UID)
	if err != nil {
		logger.LogWithError(log.WithFields(logrus.Fields{"owner_id": model.ID}), "Unable to parse owner uid from database", err)
		return domain.Owner{}, err
	}

	return domain.Owner{UID: uid, ID: domain.OwnerID(model.ID)}, nil
}

// NewCachedGetOwnerByUID remembers successful lookups.  Misses are not cached so that a newly
// registered owner resolves on the next request.
func NewCachedGetOwnerByUID(size int, ttl time.Duration, wrapped GetOwnerByUID) GetOwnerByUID {
	cache := expirable.NewLRU[uuid.UUID, domain.Owner](size, nil, ttl)

	return func(ctx context.Context, log *logrus.Entry, uid uuid.UUID) (domain.Owner, error) {
		if owner, ok := cache.Get(uid); ok {
			metrics.ownerCacheHitCounter.Inc()
			return owner, nil
		}

		metrics.ownerCacheMissCounter.Inc()

		owner, err := wrapped(ctx, log, uid)
		if err != nil {
			return owner, err
		}

		cache.Add(uid, owner)

		return owner, nil
	}
}

func NewCachedGetOwnerByID(size int, ttl time.Duration, wrapped GetOwnerByID) GetOwnerByID {
	cache := expirable.NewLRU[domain.OwnerID, domain.Owner](size, nil, ttl)

	return func(ctx context.Context, log *logrus.Entry, id domain.OwnerID) (domain.Owner, error) {
		if owner, ok := cache.Get(id); ok {
			metrics.ownerCacheHitCounter.Inc()
			return owner, nil
		}

		metrics.ownerCacheMissCounter.Inc()

		owner, err := wrapped(ctx, log, id)
		if err != nil {
			return owner, err
		}

		cache.Add(id, owner)

		return owner, nil
	}
}
