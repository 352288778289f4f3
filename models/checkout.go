package models

import "time"

// CheckoutSession bridges the multi-step checkout: the shipping address
// selected in the checkout step is held here until the payment step consumes
// it. One row per user, deleted on successful order assembly.
type CheckoutSession struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            string    `gorm:"uniqueIndex;not null" json:"user_id"`
	ShippingAddressID uint      `gorm:"not null" json:"shipping_address_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
