package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card represents a credit card whose billing-cycle day anchors installment due dates.
type Card struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_user_card_name"`
	Name      string `gorm:"size:255;not null;uniqueIndex:idx_user_card_name"`
	// DueDay is the day of month the card bills on (1-31). Shorter months clamp.
	DueDay      int              `gorm:"not null"`
	CreditLimit *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Debts       []Debt           `gorm:"foreignKey:CardID"`
}
