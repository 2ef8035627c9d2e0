package main

import (
	"net/http"
	"time"

	"finflow/models"
	"finflow/pkg/cashflow"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func createIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Description string  `json:"description" binding:"required"`
		Amount      string  `json:"amount" binding:"required"`
		Recurring   bool    `json:"recurring"`
		ReceiveDay  int     `json:"receive_day"`
		StartDate   string  `json:"start_date" binding:"required"`
		EndDate     *string `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	inc := models.Income{
		UserID:      user.ID,
		Description: req.Description,
		Amount:      amount,
		Recurring:   req.Recurring,
		ReceiveDay:  req.ReceiveDay,
		StartDate:   start,
	}
	if req.Recurring {
		if req.ReceiveDay < 1 || req.ReceiveDay > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receive_day must be 1-31 for recurring income"})
			return
		}
	} else if inc.ReceiveDay == 0 {
		inc.ReceiveDay = 1
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil || end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		inc.EndDate = &end
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inc).Error; err != nil {
			return err
		}
		// a one-off income is its own single ledger entry; recurring ones
		// materialize lazily on read instead
		return cashflow.MaterializeOneOff(entryStore{db: tx}, incomeDefinition(inc))
	})
	if err != nil {
		logger.Errorf("create income for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": inc.ID})
}

// listIncomesHandler expands recurring incomes before listing, so reading the
// list is what keeps the materialized horizon rolling forward.
func listIncomesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var incomes []models.Income
	q := db.Model(&models.Income{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&incomes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	now := time.Now()
	store := entryStore{db: db}
	for _, inc := range incomes {
		if err := cashflow.EnsureEntries(store, incomeDefinition(inc), now); err != nil {
			logger.Warnf("expand income %d: %v", inc.ID, err)
		}
	}
	// reload with fresh entries attached
	var out []models.Income
	q = db.Model(&models.Income{}).Preload("Entries", func(q *gorm.DB) *gorm.DB { return q.Order("month") })
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func findOwnedIncome(c *gin.Context, user *models.User) (*models.Income, bool) {
	var inc models.Income
	if err := db.First(&inc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "income not found"})
		return nil, false
	}
	if !isAdmin(c) && inc.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &inc, true
}

// updateIncomeHandler edits an income definition. An amount change also
// retargets unreceived entries from the current month on; received history is
// never rewritten.
func updateIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	inc, ok := findOwnedIncome(c, user)
	if !ok {
		return
	}
	var req struct {
		Description string  `json:"description"`
		Amount      *string `json:"amount"`
		ReceiveDay  *int    `json:"receive_day"`
		EndDate     *string `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Description != "" {
		inc.Description = req.Description
	}
	if req.ReceiveDay != nil {
		if *req.ReceiveDay < 1 || *req.ReceiveDay > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receive_day must be 1-31"})
			return
		}
		inc.ReceiveDay = *req.ReceiveDay
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			inc.EndDate = nil
		} else {
			end, err := parseDate(*req.EndDate)
			if err != nil || end.Before(inc.StartDate) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
				return
			}
			inc.EndDate = &end
		}
	}
	var newAmount *decimal.Decimal
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil || amount.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		inc.Amount = amount
		newAmount = &amount
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(inc).Error; err != nil {
			return err
		}
		if newAmount != nil {
			currentMonth := cashflow.MonthStart(time.Now())
			return tx.Model(&models.IncomeEntry{}).
				Where("income_id = ? AND received = false AND month >= ?", inc.ID, currentMonth).
				Update("amount", *newAmount).Error
		}
		return nil
	})
	if err != nil {
		logger.Errorf("update income %d: %v", inc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": inc.ID})
}

// archiveIncomeHandler stops future expansion and projection for an income
// without touching its history.
func archiveIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	inc, ok := findOwnedIncome(c, user)
	if !ok {
		return
	}
	var req struct {
		Archived *bool `json:"archived" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inc.Archived = *req.Archived
	if err := db.Save(inc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": inc.ID, "archived": inc.Archived})
}

// deleteIncomeHandler removes an income; entries go with it via FK cascade.
func deleteIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	inc, ok := findOwnedIncome(c, user)
	if !ok {
		return
	}
	if err := db.Delete(&models.Income{}, inc.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "income deleted"})
}

func setEntryReceivedHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Received *bool `json:"received" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var entry models.IncomeEntry
	if err := db.First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	var inc models.Income
	if err := db.First(&inc, entry.IncomeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "income not found"})
		return
	}
	if !isAdmin(c) && inc.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	entry.Received = *req.Received
	if entry.Received {
		now := time.Now()
		entry.ReceivedAt = &now
	} else {
		entry.ReceivedAt = nil
	}
	if err := db.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
