package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("returned")
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusDelivered, false}, // no skipping
		{OrderStatusShipped, OrderStatusPending, false},   // no going back
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusShipped, OrderStatusCanceled, false}, // cancel only from pending
		{OrderStatusCanceled, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatus("bogus"), OrderStatusShipped, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestUserRole(t *testing.T) {
	assert.True(t, UserRoleBuyer.IsValid())
	assert.True(t, UserRoleAdmin.IsValid())
	assert.False(t, UserRole("root").IsValid())

	role, err := ParseUserRole("admin")
	require.NoError(t, err)
	assert.Equal(t, UserRoleAdmin, role)

	_, err = ParseUserRole("superuser")
	assert.Error(t, err)
}
