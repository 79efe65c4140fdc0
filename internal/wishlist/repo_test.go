package wishlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	pets := `
CREATE TABLE IF NOT EXISTS pets (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  species TEXT NOT NULL,
  breed TEXT,
  age INTEGER,
  description TEXT,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	wishlistItems := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  pet_id TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT wishlist_items_user_pet_key UNIQUE (user_id, pet_id)
);`
	require.NoError(t, db.Exec(pets).Error)
	require.NoError(t, db.Exec(wishlistItems).Error)
	return db
}

func seedWishPet(t *testing.T, db *gorm.DB, name string) *models.Pet {
	t.Helper()

	pet := &models.Pet{
		ID:       uuid.New(),
		Name:     name,
		Species:  "cat",
		Category: "kittens",
		Price:    decimal.RequireFromString("199.50"),
		Stock:    2,
	}
	require.NoError(t, db.Create(pet).Error)
	return pet
}

func TestAddIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	pet := seedWishPet(t, db, "Milo")
	userID := uuid.New()

	require.NoError(t, repo.Add(context.Background(), userID, pet.ID))
	require.NoError(t, repo.Add(context.Background(), userID, pet.ID))

	var count int64
	require.NoError(t, db.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemove(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	pet := seedWishPet(t, db, "Milo")
	userID := uuid.New()

	require.NoError(t, repo.Add(context.Background(), userID, pet.ID))

	affected, err := repo.Remove(context.Background(), userID, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Remove(context.Background(), userID, pet.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestListPaginates(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		pet := seedWishPet(t, db, fmt.Sprintf("Pet %d", i))
		item := &models.WishlistItem{
			ID:        uuid.New(),
			UserID:    userID,
			PetID:     pet.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(item).Error)
	}

	first, cursor, err := repo.List(context.Background(), userID, "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, "Pet 2", first[0].Name)

	second, cursor, err := repo.List(context.Background(), userID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, "Pet 0", second[0].Name)
}

func TestListScopedToUser(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	pet := seedWishPet(t, db, "Milo")
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, repo.Add(context.Background(), alice, pet.ID))

	items, _, err := repo.List(context.Background(), bob, "", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
