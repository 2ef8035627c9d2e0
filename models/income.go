package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is a one-off or recurring income definition. Recurring incomes
// materialize one IncomeEntry per covered month up to the look-ahead horizon.
type Income struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      uint            `gorm:"index;not null"`
	Description string          `gorm:"size:255;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Recurring   bool            `gorm:"default:false;not null"`
	// ReceiveDay is the day of month the income arrives (1-31, required when recurring).
	ReceiveDay int       `gorm:"default:1"`
	StartDate  time.Time `gorm:"not null"`
	// EndDate nil means the income recurs indefinitely (up to the projection horizon).
	EndDate  *time.Time
	Archived bool          `gorm:"default:false;not null;index"`
	Entries  []IncomeEntry `gorm:"foreignKey:IncomeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
