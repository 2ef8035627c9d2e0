package main

import (
	"net/http"
	"strconv"
	"time"

	"finflow/models"
	"finflow/pkg/cashflow"

	"github.com/gin-gonic/gin"
)

const maxWindowMonths = 36

// windowParam parses a past/future month count query param with a default.
func windowParam(c *gin.Context, name string, def int) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > maxWindowMonths {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be 0-36"})
		return 0, false
	}
	return n, true
}

// cashFlowHandler builds the month-indexed ledger: recurring incomes are
// expanded first (same read-triggered contract as listing incomes), then
// entries and installments are merged and future months projected.
func cashFlowHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	past, ok := windowParam(c, "past", 6)
	if !ok {
		return
	}
	future, ok := windowParam(c, "future", 6)
	if !ok {
		return
	}
	now := time.Now()

	var incomes []models.Income
	if err := db.Where("user_id = ?", user.ID).Find(&incomes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	store := entryStore{db: db}
	defs := make([]cashflow.IncomeDefinition, 0, len(incomes))
	for _, inc := range incomes {
		def := incomeDefinition(inc)
		defs = append(defs, def)
		if err := cashflow.EnsureEntries(store, def, now); err != nil {
			logger.Warnf("expand income %d: %v", inc.ID, err)
		}
	}

	var entryRows []models.IncomeEntry
	if err := db.Joins("JOIN incomes ON incomes.id = income_entries.income_id").
		Where("incomes.user_id = ?", user.ID).
		Find(&entryRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	entries := make([]cashflow.Entry, len(entryRows))
	for i, e := range entryRows {
		entries[i] = cashflow.Entry{IncomeID: e.IncomeID, Month: e.Month, Amount: e.Amount, Received: e.Received}
	}

	var instRows []models.Installment
	if err := db.Joins("JOIN debts ON debts.id = installments.debt_id").
		Where("debts.user_id = ?", user.ID).
		Find(&instRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	installments := make([]cashflow.InstallmentDue, len(instRows))
	for i, inst := range instRows {
		installments[i] = cashflow.InstallmentDue{DueDate: inst.DueDate, Amount: inst.Amount}
	}

	rows, err := cashflow.Monthly(cashflow.MonthlyInput{
		Incomes:      defs,
		Entries:      entries,
		Installments: installments,
		PastMonths:   past,
		FutureMonths: future,
		Now:          now,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
