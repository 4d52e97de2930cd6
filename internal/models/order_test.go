package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_HappyPath(t *testing.T) {
	path := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
	}

	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]),
			"%s → %s devrait être permis", path[i], path[i+1])
	}
}

func TestCanTransition_CancellableFromAnyActiveStatus(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped} {
		assert.True(t, CanTransition(from, OrderStatusCancelled),
			"%s → cancelled devrait être permis", from)
	}
}

func TestCanTransition_NoSkippingOrRewinding(t *testing.T) {
	cases := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusConfirmed, OrderStatusPending},
		{OrderStatusShipped, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusPending},
	}

	for _, tc := range cases {
		assert.False(t, CanTransition(tc.from, tc.to),
			"%s → %s devrait être interdit", tc.from, tc.to)
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}

	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, IsTerminalStatus(terminal))
		for _, to := range all {
			assert.False(t, CanTransition(terminal, to),
				"%s → %s devrait être interdit", terminal, to)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(OrderStatusPending))
	assert.True(t, IsValidStatus(OrderStatusCancelled))
	assert.False(t, IsValidStatus(OrderStatus("refunded")))
	assert.False(t, IsValidStatus(OrderStatus("")))
}
