package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
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
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  pet_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT cart_items_user_pet_key UNIQUE (user_id, pet_id)
);`
	require.NoError(t, db.Exec(pets).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func seedCartPet(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Pet {
	t.Helper()

	pet := &models.Pet{
		ID:       uuid.New(),
		Name:     name,
		Species:  "dog",
		Category: "puppies",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(pet).Error)
	return pet
}

func cartLine(t *testing.T, db *gorm.DB, userID, petID uuid.UUID) *models.CartItem {
	t.Helper()

	var item models.CartItem
	err := db.First(&item, "user_id = ? AND pet_id = ?", userID, petID).Error
	require.NoError(t, err)
	return &item
}

func TestAddOrIncrementInsertsThenIncrements(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 5)
	userID := uuid.New()

	require.NoError(t, repo.AddOrIncrement(context.Background(), userID, pet.ID, 1))
	assert.Equal(t, 1, cartLine(t, db, userID, pet.ID).Quantity)

	require.NoError(t, repo.AddOrIncrement(context.Background(), userID, pet.ID, 2))
	assert.Equal(t, 3, cartLine(t, db, userID, pet.ID).Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddOrIncrementRejectsNonPositiveDelta(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 5)

	assert.Error(t, repo.AddOrIncrement(context.Background(), uuid.New(), pet.ID, 0))
	assert.Error(t, repo.AddOrIncrement(context.Background(), uuid.New(), pet.ID, -1))
}

func TestAddOrIncrementConcurrentFirstAdd(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 50)
	userID := uuid.New()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = repo.AddOrIncrement(context.Background(), userID, pet.ID, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// exactly one row, quantities reconciled
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, workers, cartLine(t, db, userID, pet.ID).Quantity)
}

func TestAddOrIncrementIsolatesUsers(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 5)
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, repo.AddOrIncrement(context.Background(), alice, pet.ID, 1))
	require.NoError(t, repo.AddOrIncrement(context.Background(), bob, pet.ID, 4))

	assert.Equal(t, 1, cartLine(t, db, alice, pet.ID).Quantity)
	assert.Equal(t, 4, cartLine(t, db, bob, pet.ID).Quantity)
}

func TestSetQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 5)
	userID := uuid.New()

	require.NoError(t, repo.AddOrIncrement(context.Background(), userID, pet.ID, 1))

	affected, err := repo.SetQuantity(context.Background(), userID, pet.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, 4, cartLine(t, db, userID, pet.ID).Quantity)

	affected, err = repo.SetQuantity(context.Background(), userID, uuid.New(), 2)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRemoveIsOwnerScoped(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 5)
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, repo.AddOrIncrement(context.Background(), alice, pet.ID, 2))

	// bob removing alice's line touches nothing
	affected, err := repo.Remove(context.Background(), bob, pet.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.Equal(t, 2, cartLine(t, db, alice, pet.ID).Quantity)

	affected, err = repo.Remove(context.Background(), alice, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestClear(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		pet := seedCartPet(t, db, fmt.Sprintf("Pet %d", i), "100.00", 5)
		require.NoError(t, repo.AddOrIncrement(context.Background(), userID, pet.ID, 1))
	}

	require.NoError(t, repo.Clear(context.Background(), userID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListJoinsLiveCatalog(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	pet := seedCartPet(t, db, "Luna", "499.99", 5)
	userID := uuid.New()

	require.NoError(t, repo.AddOrIncrement(context.Background(), userID, pet.ID, 2))

	lines, err := repo.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Luna", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].LineTotal.Equal(decimal.RequireFromString("999.98")))

	// price edits show up on the next read
	require.NoError(t, db.Model(&models.Pet{}).Where("id = ?", pet.ID).Update("price", decimal.RequireFromString("400.00")).Error)

	lines, err = repo.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].LineTotal.Equal(decimal.RequireFromString("800.00")))
}
