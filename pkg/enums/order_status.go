package enums

import "fmt"

// OrderStatus tracks the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// statusRank orders the forward progression pending -> shipped -> delivered.
// Canceled is terminal and reachable only from pending.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusShipped:   1,
	OrderStatusDelivered: 2,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// CanTransitionTo reports whether an order may move from s to next.
// Transitions only ever move forward; canceling is allowed from pending only.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() || s == next {
		return false
	}
	if next == OrderStatusCanceled {
		return s == OrderStatusPending
	}
	if s == OrderStatusCanceled {
		return false
	}
	return statusRank[next] == statusRank[s]+1
}
