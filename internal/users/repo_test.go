package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/pawhaven/petshop-backend/pkg/db"
	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'buyer',
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
  total_price TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersDDL).Error)
	require.NoError(t, db.Exec(ordersDDL).Error)
	return db
}

func newUser(t *testing.T, repo *Repository, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		Role:         enums.UserRoleBuyer,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestCreateNormalizesEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	user := newUser(t, repo, "  Buyer@Example.COM ")
	assert.Equal(t, "buyer@example.com", user.Email)

	found, err := repo.FindByEmail(context.Background(), "BUYER@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	newUser(t, repo, "dup@example.com")
	err := repo.Create(context.Background(), &models.User{
		Name:         "Other",
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         enums.UserRoleBuyer,
	})
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, ""))
}

func TestListPaginates(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		user := &models.User{
			ID:           uuid.New(),
			Name:         fmt.Sprintf("User %d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "hash",
			Role:         enums.UserRoleBuyer,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(user).Error)
	}

	first, cursor, err := repo.List(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, "User 2", first[0].Name)

	second, cursor, err := repo.List(context.Background(), cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, "User 0", second[0].Name)
}

func TestUpdateRole(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	user := newUser(t, repo, "promote@example.com")

	affected, err := repo.UpdateRole(context.Background(), user.ID, enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, found.Role)
}

func TestUpdateRoleMissingUser(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	affected, err := repo.UpdateRole(context.Background(), uuid.New(), enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDeleteRestrictedByOrders(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	user := newUser(t, repo, "buyer@example.com")

	require.NoError(t, db.Exec(
		`INSERT INTO orders (id, user_id, total_price, status) VALUES (?, ?, '10.00', 'pending')`,
		uuid.New(), user.ID,
	).Error)

	_, err := repo.Delete(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, pkgdb.IsForeignKeyViolation(err))
}

func TestDeleteRemovesUser(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	user := newUser(t, repo, "gone@example.com")

	affected, err := repo.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = repo.FindByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
