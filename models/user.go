package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	Email     string          `gorm:"unique;not null" json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `gorm:"type:decimal(10,2);default:10000" json:"balance"`

	Cart      Cart              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders    []Order           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"orders"`
	Addresses []ShippingAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins the name parts that are set; empty when the profile has none.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type ShippingAddress struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	UserID          string `gorm:"index;not null" json:"user_id"`
	Street          string `gorm:"not null" json:"street"`
	City            string `gorm:"not null" json:"city"`
	StateOrProvince string `json:"state_or_province"`
	PostalCode      string `json:"postal_code"`
}
