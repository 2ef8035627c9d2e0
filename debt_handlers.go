package main

import (
	"errors"
	"net/http"
	"time"

	"finflow/models"
	"finflow/pkg/schedule"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// scheduleErrorStatus maps engine failures to HTTP statuses.
func scheduleErrorStatus(err error) int {
	switch {
	case errors.Is(err, schedule.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, schedule.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type debtRequest struct {
	Description      string `json:"description" binding:"required"`
	TotalAmount      string `json:"total_amount" binding:"required"`
	InstallmentCount int    `json:"installment_count" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	CardID           uint   `json:"card_id" binding:"required"`
	CategoryID       *uint  `json:"category_id"`
}

// resolveDebtInput validates a debt request into typed values, resolving the
// billing card (and optional category) against the owner.
func resolveDebtInput(c *gin.Context, user *models.User, req debtRequest) (decimal.Decimal, time.Time, *models.Card, bool) {
	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total_amount"})
		return decimal.Zero, time.Time{}, nil, false
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return decimal.Zero, time.Time{}, nil, false
	}
	var card models.Card
	if err := db.First(&card, req.CardID).Error; err != nil {
		// unresolvable billing card: no schedule can be generated
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "card not found"})
		return decimal.Zero, time.Time{}, nil, false
	}
	if card.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "card belongs to another user"})
		return decimal.Zero, time.Time{}, nil, false
	}
	if req.CategoryID != nil {
		var cat models.Category
		if err := db.First(&cat, *req.CategoryID).Error; err != nil || cat.UserID != user.ID {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "category not found"})
			return decimal.Zero, time.Time{}, nil, false
		}
	}
	return total, start, &card, true
}

// createDebtHandler generates the installment schedule from the card's due
// day and persists debt plus installments in one transaction.
func createDebtHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	total, start, card, ok := resolveDebtInput(c, user, req)
	if !ok {
		return
	}
	entries, err := schedule.Generate(total, req.InstallmentCount, start, card.DueDay)
	if err != nil {
		c.JSON(scheduleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	debt := models.Debt{
		UserID:           user.ID,
		CardID:           card.ID,
		CategoryID:       req.CategoryID,
		Description:      req.Description,
		TotalAmount:      total,
		InstallmentCount: req.InstallmentCount,
		StartDate:        start,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&debt).Error; err != nil {
			return err
		}
		return tx.Create(installmentsFromEntries(debt.ID, entries)).Error
	})
	if err != nil {
		logger.Errorf("create debt for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": debt.ID})
}

func installmentsFromEntries(debtID uint, entries []schedule.Entry) []models.Installment {
	out := make([]models.Installment, len(entries))
	for i, e := range entries {
		out[i] = models.Installment{
			DebtID:  debtID,
			Number:  e.Number,
			DueDate: e.DueDate,
			Amount:  e.Amount,
			Paid:    e.Paid,
			PaidAt:  e.PaidAt,
		}
	}
	return out
}

// findOwnedDebt loads a debt by path id with its installments and enforces
// ownership (admin bypasses).
func findOwnedDebt(c *gin.Context, user *models.User) (*models.Debt, bool) {
	var debt models.Debt
	if err := db.Preload("Installments", func(q *gorm.DB) *gorm.DB { return q.Order("number") }).
		First(&debt, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "debt not found"})
		return nil, false
	}
	if !isAdmin(c) && debt.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &debt, true
}

func listDebtsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var debts []models.Debt
	q := db.Model(&models.Debt{}).Preload("Installments", func(q *gorm.DB) *gorm.DB { return q.Order("number") })
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&debts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, debts)
}

func getDebtHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	debt, ok := findOwnedDebt(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, debt)
}

// updateDebtHandler regenerates the schedule and re-attaches paid state by
// installment number. The old set is replaced atomically: either the whole
// new schedule lands or nothing changes.
func updateDebtHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	debt, ok := findOwnedDebt(c, user)
	if !ok {
		return
	}
	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	total, start, card, ok := resolveDebtInput(c, user, req)
	if !ok {
		return
	}
	entries, err := schedule.Generate(total, req.InstallmentCount, start, card.DueDay)
	if err != nil {
		c.JSON(scheduleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	prev := make([]schedule.PaidState, len(debt.Installments))
	for i, inst := range debt.Installments {
		prev[i] = schedule.PaidState{Number: inst.Number, Paid: inst.Paid, PaidAt: inst.PaidAt}
	}
	entries = schedule.Reconcile(entries, prev)

	debt.CardID = card.ID
	debt.CategoryID = req.CategoryID
	debt.Description = req.Description
	debt.TotalAmount = total
	debt.InstallmentCount = req.InstallmentCount
	debt.StartDate = start
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("debt_id = ?", debt.ID).Delete(&models.Installment{}).Error; err != nil {
			return err
		}
		if err := tx.Create(installmentsFromEntries(debt.ID, entries)).Error; err != nil {
			return err
		}
		debt.Installments = nil
		return tx.Save(debt).Error
	})
	if err != nil {
		logger.Errorf("update debt %d: %v", debt.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": debt.ID})
}

// deleteDebtHandler removes a debt; installments go with it via FK cascade.
func deleteDebtHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	debt, ok := findOwnedDebt(c, user)
	if !ok {
		return
	}
	if err := db.Delete(&models.Debt{}, debt.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "debt deleted"})
}

// setInstallmentPaidHandler toggles the paid flag, the one installment field
// a user edits directly. Dates and amounts stay derived.
func setInstallmentPaidHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Paid *bool `json:"paid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var inst models.Installment
	if err := db.First(&inst, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "installment not found"})
		return
	}
	var debt models.Debt
	if err := db.First(&debt, inst.DebtID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "debt not found"})
		return
	}
	if !isAdmin(c) && debt.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	inst.Paid = *req.Paid
	if inst.Paid {
		now := time.Now()
		inst.PaidAt = &now
	} else {
		inst.PaidAt = nil
	}
	if err := db.Save(&inst).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, inst)
}
