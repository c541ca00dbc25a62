package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/aviaclub/internal/config"
	"github.com/example/aviaclub/internal/middleware"
	"github.com/example/aviaclub/internal/models"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{db: db, cfg: cfg}
}

// profileResponse maps a user to its public profile document. The
// password hash never appears here.
func profileResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":           user.ID,
		"fio":          user.FIO,
		"phone":        user.Phone,
		"email":        user.Email,
		"dob":          user.DOB,
		"gender":       user.Gender,
		"card_number":  user.CardNumber,
		"card_type":    user.CardType,
		"bonus_miles":  user.BonusMiles,
		"status_miles": user.StatusMiles,
		"avatar_url":   user.AvatarURL,
		"role":         user.Role,
		"created_at":   user.CreatedAt,
		"updated_at":   user.UpdatedAt,
	}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profileResponse(&user)})
}

// profileAllowList maps accepted payload keys to their columns. Both
// camelCase and snake_case spellings of the card fields are accepted
// and land on the same column.
var profileAllowList = map[string]string{
	"fio":         "fio",
	"email":       "email",
	"dob":         "dob",
	"gender":      "gender",
	"cardNumber":  "card_number",
	"card_number": "card_number",
	"cardType":    "card_type",
	"card_type":   "card_type",
}

// filterProfileUpdates keeps only allow-listed string fields from a
// partial update payload. Unknown keys and non-string values are
// dropped without error.
func filterProfileUpdates(payload map[string]interface{}) map[string]interface{} {
	updates := map[string]interface{}{}
	for key, value := range payload {
		column, ok := profileAllowList[key]
		if !ok {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		updates[column] = text
	}
	return updates
}

// UpdateProfile applies a partial update. A payload with no recognized
// keys is a no-op success and returns the unchanged profile.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := filterProfileUpdates(payload)

	if email, ok := updates["email"].(string); ok {
		normalized := strings.ToLower(strings.TrimSpace(email))
		updates["email"] = normalized

		var existing models.User
		err := h.db.Where("email = ? AND id <> ?", normalized, userID).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "email already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profileResponse(&user)})
}

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadAvatar stores an avatar image and records its reference on the
// user.
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "avatar file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExts[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported avatar format")
	}

	dir := filepath.Join(h.cfg.UploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return err
	}

	avatarURL := "/uploads/avatars/" + name
	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"avatar_url": avatarURL, "updated_at": time.Now()}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "avatar_url": avatarURL})
}
