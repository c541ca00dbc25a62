package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/aviaclub/internal/config"
	"github.com/example/aviaclub/internal/models"
	"github.com/example/aviaclub/internal/otp"
	"github.com/example/aviaclub/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db   *gorm.DB
	cfg  *config.Config
	auth *otp.Authenticator
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, auth *otp.Authenticator) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, auth: auth}
}

type registerRequest struct {
	FIO        string `json:"fio"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	DOB        string `json:"dob"`
	Gender     string `json:"gender"`
	CardNumber string `json:"card_number"`
}

// Register creates a new member account. At least one of phone or
// email must be provided; both are unique across users.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FIO == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "fio and password are required")
	}

	if req.Phone == "" && req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone or email is required")
	}

	var phone *string
	if req.Phone != "" {
		normalized, err := utils.NormalizePhone(req.Phone)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
		}
		phone = &normalized

		var existing models.User
		if err := h.db.Where("phone = ?", normalized).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "user with this phone already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	var email *string
	if req.Email != "" {
		normalized := strings.ToLower(strings.TrimSpace(req.Email))
		email = &normalized

		var existing models.User
		if err := h.db.Where("email = ?", normalized).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "user with this email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	cardNumber := req.CardNumber
	if cardNumber == "" {
		cardNumber = generateCardNumber()
	}

	user := models.User{
		FIO:          req.FIO,
		Phone:        phone,
		Email:        email,
		PasswordHash: passwordHash,
		DOB:          req.DOB,
		Gender:       req.Gender,
		CardNumber:   cardNumber,
		CardType:     "classic",
		Role:         "user",
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    profileResponse(&user),
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates by phone or email plus password. Unknown
// identifier and wrong password return the same response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Identifier == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "identifier and password are required")
	}

	query := h.db
	if strings.Contains(req.Identifier, "@") {
		query = query.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Identifier)))
	} else {
		normalized, err := utils.NormalizePhone(req.Identifier)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
		}
		query = query.Where("phone = ?", normalized)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    profileResponse(&user),
	})
}

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

// RequestCode generates and dispatches a login code. The response is
// success as soon as the code is stored; delivery is fire-and-forget.
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	var req requestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	if _, err := h.auth.RequestCode(c.Context(), req.Phone); err != nil {
		if errors.Is(err, utils.ErrInvalidPhone) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyCode consumes a login code and issues a token for the matching
// user.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone and code are required")
	}

	phone, err := h.auth.VerifyCode(c.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidPhone):
			return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
		case errors.Is(err, otp.ErrCodeNotFound):
			return fiber.NewError(fiber.StatusNotFound, "verification code not found")
		case errors.Is(err, otp.ErrCodeExpired):
			return fiber.NewError(fiber.StatusBadRequest, "verification code expired")
		case errors.Is(err, otp.ErrCodeMismatch):
			return fiber.NewError(fiber.StatusBadRequest, "invalid verification code")
		}
		return err
	}

	var user models.User
	if err := h.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"fio":     user.FIO,
	})
}

func generateCardNumber() string {
	return fmt.Sprintf("%012d", time.Now().UnixNano()%1_000_000_000_000)
}
