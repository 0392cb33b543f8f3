package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/threadcart/backend/internal/config"
	"github.com/threadcart/backend/internal/handlers"
	"github.com/threadcart/backend/internal/middleware"
	"github.com/threadcart/backend/internal/models"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	userHandler *handlers.UserHandler,
	productHandler *handlers.ProductHandler,
	cartHandler *handlers.CartHandler,
	healthHandler *handlers.HealthHandler,
) {
	// General rate limiter: 120 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	app.Get("/health", healthHandler.Check)

	// Products. The literal routes must be registered before /:id so
	// an id segment of "summary" or "search" cannot shadow them.
	products := app.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/summary", middleware.JWTProtected(cfg), middleware.RequireRole(models.RoleEditorAdmin), productHandler.Summary)
	products.Get("/search/:term", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", middleware.JWTProtected(cfg), middleware.RequireRole(models.RoleEditorAdmin), productHandler.Create)
	products.Put("/:id", middleware.JWTProtected(cfg), middleware.RequireRole(models.RoleEditorAdmin), productHandler.Update)
	products.Delete("/:id", middleware.JWTProtected(cfg), middleware.RequireRole(models.RoleAdmin), productHandler.Delete)

	// Users. Stricter limiter on the credential endpoints: 10 req/min per IP.
	users := app.Group("/users")
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	users.Post("/", authLimiter, userHandler.Register)
	users.Post("/login", authLimiter, userHandler.Login)
	users.Post("/forgot-password", authLimiter, userHandler.ForgotPassword)
	users.Post("/reset-password", authLimiter, userHandler.ResetPassword)
	users.Get("/", middleware.JWTProtected(cfg), middleware.RequireRole(models.RoleAdmin), userHandler.List)
	users.Get("/:id", middleware.JWTProtected(cfg), userHandler.GetByID)
	users.Put("/:id", middleware.JWTProtected(cfg), userHandler.Update)
	users.Delete("/:id", middleware.JWTProtected(cfg), middleware.RequireRole(models.RoleAdmin), userHandler.Delete)

	// Cart. Every route requires a verified token; admin sub-routes
	// add the role gates (list is editor-admin, destructive clear is
	// full-admin only).
	cart := app.Group("/cart", middleware.JWTProtected(cfg))
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/add", cartHandler.AddItem)
	cart.Put("/update/:cartItemId", cartHandler.UpdateItem)
	cart.Delete("/remove/:cartItemId", cartHandler.RemoveItem)
	cart.Post("/checkout", cartHandler.Checkout)
	cart.Get("/admin/all", middleware.RequireRole(models.RoleEditorAdmin), cartHandler.ListAll)
	cart.Delete("/admin/clear/:userId", middleware.RequireRole(models.RoleAdmin), cartHandler.ClearUserCart)
}
