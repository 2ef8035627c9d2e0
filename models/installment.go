package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one dated payment fragment of a debt. Number is 1-based and
// unique within the debt; Paid is the only field a user mutates directly.
type Installment struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DebtID    uint            `gorm:"index;not null;uniqueIndex:idx_debt_installment_number"`
	Number    int             `gorm:"not null;uniqueIndex:idx_debt_installment_number"`
	DueDate   time.Time       `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Paid      bool            `gorm:"default:false;not null"`
	PaidAt    *time.Time
}
