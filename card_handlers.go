package main

import (
	"net/http"

	"finflow/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// createCardHandler registers a billing card. The due day anchors every
// installment generated against the card.
func createCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name        string  `json:"name" binding:"required"`
		DueDay      int     `json:"due_day" binding:"required,min=1,max=31"`
		CreditLimit *string `json:"credit_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card := models.Card{UserID: user.ID, Name: req.Name, DueDay: req.DueDay}
	if req.CreditLimit != nil {
		limit, err := decimal.NewFromString(*req.CreditLimit)
		if err != nil || limit.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credit_limit"})
			return
		}
		card.CreditLimit = &limit
	}
	if err := db.Create(&card).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "card name already used"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": card.ID})
}

// listCardsHandler lists the user's cards (admin sees all)
func listCardsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var cards []models.Card
	q := db.Model(&models.Card{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id").Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, cards)
}

func updateCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var card models.Card
	if err := db.First(&card, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	if !isAdmin(c) && card.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	var req struct {
		Name   string `json:"name"`
		DueDay *int   `json:"due_day"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		card.Name = req.Name
	}
	if req.DueDay != nil {
		// Changing the due day only affects schedules generated afterwards;
		// existing installments keep their dates until the debt is edited.
		if *req.DueDay < 1 || *req.DueDay > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_day must be 1-31"})
			return
		}
		card.DueDay = *req.DueDay
	}
	if err := db.Save(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, card)
}

// deleteCardHandler refuses to delete a card that still backs debts.
func deleteCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var card models.Card
	if err := db.First(&card, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	if !isAdmin(c) && card.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	var debts int64
	db.Model(&models.Debt{}).Where("card_id = ?", card.ID).Count(&debts)
	if debts > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "card has debts; delete them first"})
		return
	}
	if err := db.Delete(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
}

func createCategoryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := models.Category{UserID: user.ID, Name: req.Name}
	if err := db.Create(&cat).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cat.ID})
}

func listCategoriesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var cats []models.Category
	q := db.Model(&models.Category{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("name").Find(&cats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

func deleteCategoryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var cat models.Category
	if err := db.First(&cat, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if !isAdmin(c) && cat.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	// debts keep their rows; the category reference is detached in the same
	// transaction so a failed detach never strands debts on a deleted id
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Debt{}).Where("category_id = ?", cat.ID).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		logger.Errorf("delete category %d: %v", cat.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
