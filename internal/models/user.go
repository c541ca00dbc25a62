package models

import (
	"github.com/google/uuid"
)

// User represents a loyalty-program member. Phone and email are both
// optional at registration but unique when present; the loyalty card
// number is always assigned.
type User struct {
	BaseModel
	FIO          string  `json:"fio"`
	Phone        *string `gorm:"uniqueIndex" json:"phone"`
	Email        *string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string  `json:"-"`
	DOB          string  `json:"dob"`
	Gender       string  `json:"gender"`
	CardNumber   string  `gorm:"uniqueIndex" json:"card_number"`
	CardType     string  `gorm:"default:classic" json:"card_type"`
	BonusMiles   int64   `json:"bonus_miles"`
	StatusMiles  int64   `json:"status_miles"`
	AvatarURL    string  `json:"avatar_url"`
	Role         string  `gorm:"default:user" json:"role"`

	CartItems         []CartItem         `json:"cart_items,omitempty"`
	MilesTransactions []MilesTransaction `json:"miles_transactions,omitempty"`
	Orders            []Order            `json:"orders,omitempty"`
}

// CartItem is a mutable line item in a user's cart. Product name and
// price are copied at add time so later catalog edits do not change
// what the customer sees at checkout.
type CartItem struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ProductID   uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	Position    int       `json:"position"`
}
