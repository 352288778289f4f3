package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Order placed, payment not settled yet
	OrderStatusPaid      OrderStatus = "paid"      // Payment settled
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusCompleted OrderStatus = "completed" // Customer received the order
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before shipping, stock restored
)

// orderTransitions is the full state machine. Completed and cancelled are
// terminal: they map to an empty set.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether a user may still cancel an order in state s.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

type Order struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Reference         string           `gorm:"uniqueIndex" json:"reference"`
	UserID            string           `gorm:"not null;index" json:"user_id"`
	User              User             `gorm:"foreignKey:UserID" json:"-"`
	Items             []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status            OrderStatus      `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentMethod     string           `json:"payment_method"` // "card" or "check"
	TransactionID     *string          `json:"transaction_id"`
	TotalAmount       decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"total_amount"`
	ShippingAddressID *uint            `json:"shipping_address_id"`
	ShippingAddress   *ShippingAddress `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:SET NULL" json:"shipping_address,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// OrderItem freezes quantity and unit price at assembly time. ProductID is
// nullable so deleting a product never deletes order history.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	ProductID *uint           `json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Total is quantity times the frozen unit price.
func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PaymentDocument stores a generated payment artifact (the check PDF) so it
// can be downloaded later by order id.
type PaymentDocument struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	CheckNumber string    `json:"check_number"`
	Data        []byte    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
