package main

import (
	"time"

	"finflow/models"
	"finflow/pkg/cashflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entryStore adapts gorm to the cashflow engine's persistence seam.
type entryStore struct {
	db *gorm.DB
}

func (s entryStore) MonthsWithEntries(incomeID uint) ([]time.Time, error) {
	var months []time.Time
	err := s.db.Model(&models.IncomeEntry{}).
		Where("income_id = ?", incomeID).
		Pluck("month", &months).Error
	return months, err
}

// CreateEntry relies on the (income_id, month) unique index: a concurrent
// expansion that already created the month is a no-op, not an error.
func (s entryStore) CreateEntry(e cashflow.Entry) error {
	row := models.IncomeEntry{
		IncomeID: e.IncomeID,
		Month:    cashflow.MonthStart(e.Month),
		Amount:   e.Amount,
		Received: e.Received,
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// incomeDefinition maps a persisted income onto the engine's plain record.
func incomeDefinition(inc models.Income) cashflow.IncomeDefinition {
	return cashflow.IncomeDefinition{
		ID:        inc.ID,
		Amount:    inc.Amount,
		Recurring: inc.Recurring,
		StartDate: inc.StartDate,
		EndDate:   inc.EndDate,
		Archived:  inc.Archived,
	}
}
