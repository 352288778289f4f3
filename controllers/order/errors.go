package orderControllers

import (
	"errors"
	"fmt"

	"github.com/juanrobles05/Urban-Loom/models"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoShippingAddress = errors.New("no shipping address selected")
	ErrOrderNotFound     = errors.New("order not found")
)

// StockConflictError reports the product that failed the authoritative stock
// check at assembly time. No partial order exists when this is returned.
type StockConflictError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available, %d requested",
		e.Name, e.Available, e.Requested)
}

// PaymentError wraps a strategy failure. The whole assembly transaction is
// rolled back before this surfaces to the caller.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return "payment failed: " + e.Reason
}

// NotCancellableError rejects cancellation from a state the machine does not
// allow it in. Nothing is mutated.
type NotCancellableError struct {
	Status models.OrderStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order cannot be cancelled in state %q", e.Status)
}

// InvalidTransitionError rejects a status update that the state machine
// forbids. These are configuration mistakes and fail loudly.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %q -> %q", e.From, e.To)
}
