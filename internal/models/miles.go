package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction type tags used in the miles ledger.
const (
	MilesTypeTopUp         = "topup"
	MilesTypeCheckoutBonus = "checkout_bonus"
)

// MilesTransaction is an append-only ledger row. The cached
// User.BonusMiles balance must always equal the sum of the user's
// transaction amounts; both writes happen inside one database
// transaction.
type MilesTransaction struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	OccurredAt  time.Time `gorm:"index" json:"occurred_at"`
}
