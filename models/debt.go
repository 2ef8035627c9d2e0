package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is a purchase split into monthly installments billed against a card.
// StartDate only contributes its year/month; the card's due day fixes the day.
type Debt struct {
	ID               uint `gorm:"primaryKey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	UserID           uint            `gorm:"index;not null"`
	CardID           uint            `gorm:"index;not null"`
	Card             Card            `gorm:"foreignKey:CardID;references:ID"`
	CategoryID       *uint           `gorm:"index"`
	Description      string          `gorm:"size:255;not null"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	InstallmentCount int             `gorm:"not null"`
	StartDate        time.Time       `gorm:"not null"`
	Installments     []Installment   `gorm:"foreignKey:DebtID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
