package connector_repository

import (
	"context"
	"testing"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlOwnerLookups(t *testing.T) {
	cfg, database := newTestDatabase(t)

	byUID, _ := NewSqlGetOwnerByUID(cfg, database)
	byID, _ := NewSqlGetOwnerByID(cfg, database)

	owner, err := byUID(context.Background(), testLog(), ownerA.UID)
	require.NoError(t, err)
	assert.Equal(t, ownerA, owner)

	owner, err = byID(context.Background(), testLog(), ownerB.ID)
	require.NoError(t, err)
	assert.Equal(t, ownerB, owner)

	_, err = byUID(context.Background(), testLog(), uuid.New())
	assert.ErrorIs(t, err, NotFoundError)

	_, err = byID(context.Background(), testLog(), "")
	assert.ErrorIs(t, err, InvalidOwnerError)
}

func TestCachedOwnerLookup(t *testing.T) {
	calls := 0
	wrapped := func(ctx context.Context, log *logrus.Entry, uid uuid.UUID) (domain.Owner, error) {
		calls++
		if uid != ownerA.UID {
			return domain.Owner{}, NotFoundError
		}
		return ownerA, nil
	}

	lookup := NewCachedGetOwnerByUID(10, time.Minute, wrapped)

	for i := 0; i < 3; i++ {
		owner, err := lookup(context.Background(), testLog(), ownerA.UID)
		require.NoError(t, err)
		assert.Equal(t, ownerA, owner)
	}
	assert.Equal(t, 1, calls)

	missing := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := lookup(context.Background(), testLog(), missing)
		assert.ErrorIs(t, err, NotFoundError)
	}
	assert.Equal(t, 3, calls)
}
