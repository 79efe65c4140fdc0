package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cartsvc "github.com/pawhaven/petshop-backend/internal/cart"
	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
)

func testOrderService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	return NewService(NewRepository(db), cartsvc.NewRepository(db), nil), db
}

func TestServiceCheckoutEmptyCart(t *testing.T) {
	svc, _ := testOrderService(t)

	_, err := svc.Checkout(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeEmptyCart, typed.Code())
}

func TestServiceCheckoutClearsCart(t *testing.T) {
	svc, db := testOrderService(t)
	luna := seedOrderPet(t, db, "Luna", "499.99", 5)
	userID := uuid.New()
	addCartLine(t, db, userID, luna.ID, 2)

	order, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("999.98")))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceCheckoutInsufficientStock(t *testing.T) {
	svc, db := testOrderService(t)
	luna := seedOrderPet(t, db, "Luna", "499.99", 1)
	userID := uuid.New()
	addCartLine(t, db, userID, luna.ID, 5)

	_, err := svc.Checkout(context.Background(), userID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// cart survives the failed checkout
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestServiceGetHidesForeignOrders(t *testing.T) {
	svc, db := testOrderService(t)
	luna := seedOrderPet(t, db, "Luna", "499.99", 5)
	owner := uuid.New()
	addCartLine(t, db, owner, luna.ID, 1)

	order, err := svc.Checkout(context.Background(), owner)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	fetched, err := svc.Get(context.Background(), owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestServiceSetStatusForwardOnly(t *testing.T) {
	svc, db := testOrderService(t)
	luna := seedOrderPet(t, db, "Luna", "499.99", 5)
	userID := uuid.New()
	addCartLine(t, db, userID, luna.ID, 1)

	order, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)

	shipped, err := svc.SetStatus(context.Background(), order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, shipped.Status)

	// no going back
	_, err = svc.SetStatus(context.Background(), order.ID, "pending")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// canceling a shipped order is disallowed
	_, err = svc.SetStatus(context.Background(), order.ID, "canceled")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	delivered, err := svc.SetStatus(context.Background(), order.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, delivered.Status)
}

func TestServiceSetStatusUnknownValue(t *testing.T) {
	svc, _ := testOrderService(t)

	_, err := svc.SetStatus(context.Background(), uuid.New(), "returned")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceSetStatusCancelFromPending(t *testing.T) {
	svc, db := testOrderService(t)
	luna := seedOrderPet(t, db, "Luna", "499.99", 5)
	userID := uuid.New()
	addCartLine(t, db, userID, luna.ID, 1)

	order, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)

	canceled, err := svc.SetStatus(context.Background(), order.ID, "canceled")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCanceled, canceled.Status)

	// canceled is terminal
	_, err = svc.SetStatus(context.Background(), order.ID, "shipped")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestServiceAdminListFiltersStatus(t *testing.T) {
	svc, db := testOrderService(t)
	luna := seedOrderPet(t, db, "Luna", "499.99", 10)

	for i := 0; i < 2; i++ {
		userID := uuid.New()
		addCartLine(t, db, userID, luna.ID, 1)
		_, err := svc.Checkout(context.Background(), userID)
		require.NoError(t, err)
	}

	page, err := svc.AdminList(context.Background(), "pending", "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	_, err = svc.AdminList(context.Background(), "bogus", "", 10)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
