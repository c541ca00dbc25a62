package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/aviaclub/internal/config"
	"github.com/example/aviaclub/internal/handlers"
	"github.com/example/aviaclub/internal/middleware"
	"github.com/example/aviaclub/internal/otp"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, authenticator *otp.Authenticator) {
	authHandler := handlers.NewAuthHandler(db, cfg, authenticator)
	profileHandler := handlers.NewProfileHandler(db, cfg)
	shopHandler := handlers.NewShopHandler(db)
	milesHandler := handlers.NewMilesHandler(db, cfg)
	notificationHandler := handlers.NewNotificationHandler(db)

	api := app.Group("/api")

	// Auth routes
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	auth := api.Group("/auth")
	auth.Post("/request-code", authHandler.RequestCode)
	auth.Post("/verify-code", authHandler.VerifyCode)

	// Public shop and miles routes
	api.Get("/shop", shopHandler.ListProducts)
	api.Post("/miles/topup", milesHandler.TopUp)
	api.Get("/miles/history/:card", milesHandler.History)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Post("/profile/avatar", profileHandler.UploadAvatar)

	protected.Get("/cart", shopHandler.GetCart)
	protected.Post("/cart/items", shopHandler.AddCartItem)
	protected.Delete("/cart/items/:id", shopHandler.RemoveCartItem)
	protected.Post("/checkout", shopHandler.Checkout)
	protected.Get("/orders", shopHandler.ListOrders)

	protected.Get("/notifications", notificationHandler.ListNotifications)
	protected.Post("/notifications", notificationHandler.CreateNotification)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)
}
