package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "fintrack-server/src/db"
	"fintrack-server/src/models"
)

// The cache-hit path never touches the pool, so it can be exercised without
// a database.
func TestGetCategoryByID_CacheHitReturnsPrivateCopy(t *testing.T) {
	cache.InitCache()
	defer cache.ClearAllCategoryCaches()

	id := uuid.New()
	cache.SetCategoryCache("category:"+id.String(), models.Category{
		ID:   id,
		Name: "Groceries",
		Type: models.TypeExpense,
	})
	cache.Cache.Wait()

	store := NewCategoryStore(nil)
	ctx := context.Background()

	first, err := store.GetCategoryByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, "Groceries", first.Name)

	// A caller mutating its result, as a rejected admin update does before
	// the duplicate check fails, must not leak into later reads.
	first.Name = "Renamed"
	first.Type = models.TypeIncome

	second, err := store.GetCategoryByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "Groceries", second.Name)
	assert.Equal(t, models.TypeExpense, second.Type)

	// Distinct copies per hit as well.
	assert.NotSame(t, first, second)
}
