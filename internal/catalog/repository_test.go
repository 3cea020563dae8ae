package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "owner_id", "name", "category", "is_active",
			"minimum_order", "delivery_fee", "estimated_delivery_minutes",
			"total_orders", "created_at", "updated_at",
		}).AddRow(
			storeID, ownerID, "Warung Sedap", "INDONESIAN", true,
			1000, 299, 30, 42, time.Now(), time.Now(),
		)

		mock.ExpectQuery(`SELECT .* FROM stores WHERE id = \$1`).
			WithArgs(storeID).
			WillReturnRows(rows)

		store, err := repo.GetStore(ctx, storeID)
		assert.NoError(t, err)
		assert.Equal(t, storeID, store.ID)
		assert.Equal(t, ownerID, store.OwnerID)
		assert.True(t, store.IsActive)
		assert.Equal(t, int64(1000), store.MinimumOrder)
		assert.Equal(t, int64(299), store.DeliveryFee)
		assert.Equal(t, 30, store.EstimatedDeliveryMinutes)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM stores WHERE id = \$1`).
			WithArgs(storeID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetStore(ctx, storeID)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM stores`).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetStore(ctx, storeID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestRepository_GetMenuItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	itemID := uuid.New()
	storeID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "store_id", "name", "price", "is_available"}).
			AddRow(itemID, storeID, "Nasi Goreng", 1200, true)

		mock.ExpectQuery(`SELECT id, store_id, name, price, is_available FROM menu_items WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnRows(rows)

		item, err := repo.GetMenuItem(ctx, itemID)
		assert.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, int64(1200), item.Price)
		assert.True(t, item.IsAvailable)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM menu_items WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetMenuItem(ctx, itemID)
		assert.ErrorIs(t, err, ErrMenuItemNotFound)
	})
}
