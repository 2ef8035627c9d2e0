package models

import "time"

// Category groups debts for reporting (e.g. groceries, travel).
type Category struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_user_category_name"`
	Name      string `gorm:"size:255;not null;uniqueIndex:idx_user_category_name"`
}
