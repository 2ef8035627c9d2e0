package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeEntry is one month's materialized slice of an income. Month is always
// normalized to the first of the month; (IncomeID, Month) is the natural key
// and the unique index below is what makes concurrent expansion a no-op.
type IncomeEntry struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	IncomeID   uint            `gorm:"index;not null;uniqueIndex:idx_income_entry_month"`
	Month      time.Time       `gorm:"not null;uniqueIndex:idx_income_entry_month"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Received   bool            `gorm:"default:false;not null"`
	ReceivedAt *time.Time
}
