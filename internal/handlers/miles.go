package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/aviaclub/internal/config"
	"github.com/example/aviaclub/internal/models"
	"github.com/example/aviaclub/internal/queue"
)

// MilesHandler manages the loyalty miles ledger.
type MilesHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewMilesHandler constructs MilesHandler.
func NewMilesHandler(db *gorm.DB, cfg *config.Config) *MilesHandler {
	return &MilesHandler{db: db, cfg: cfg}
}

type topUpRequest struct {
	CardNumber  string `json:"card_number"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// TopUp credits miles to the card's owner. The ledger append and the
// cached balance increment commit in one transaction; the balance in
// the response is re-read from the committed row, not computed from
// the request.
func (h *MilesHandler) TopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	}

	var user models.User
	if err := h.db.Where("card_number = ?", req.CardNumber).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "card not found")
		}
		return err
	}

	description := req.Description
	if description == "" {
		description = "Miles top-up"
	}

	now := time.Now()
	err := h.db.Transaction(func(tx *gorm.DB) error {
		transaction := models.MilesTransaction{
			UserID:      user.ID,
			Amount:      req.Amount,
			Type:        models.MilesTypeTopUp,
			Description: description,
			OccurredAt:  now,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("bonus_miles", gorm.Expr("bonus_miles + ?", req.Amount)).Error
	})
	if err != nil {
		return err
	}

	var balance int64
	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).
		Select("bonus_miles").Scan(&balance).Error; err != nil {
		return err
	}

	event := queue.MilesTopUpEvent{
		UserID:      user.ID.String(),
		CardNumber:  user.CardNumber,
		Amount:      req.Amount,
		Balance:     balance,
		Description: description,
		OccurredAt:  now.UTC().Format(time.RFC3339),
	}
	rabbitURL := h.cfg.RabbitMQURL
	go func() {
		_ = queue.PublishMilesTopUp(context.Background(), rabbitURL, event)
	}()

	return c.JSON(fiber.Map{"success": true, "balance": balance})
}

// History returns the card owner's transactions newest-first.
func (h *MilesHandler) History(c *fiber.Ctx) error {
	card := c.Params("card")

	var user models.User
	if err := h.db.Where("card_number = ?", card).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "card not found")
		}
		return err
	}

	var transactions []models.MilesTransaction
	if err := h.db.Where("user_id = ?", user.ID).
		Order("occurred_at desc, created_at desc").
		Find(&transactions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    transactions,
		"balance": user.BonusMiles,
	})
}
