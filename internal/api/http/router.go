package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ahmed-Younes0x/greenswap/internal/api/http/handlers"
	"github.com/Ahmed-Younes0x/greenswap/internal/auth"
	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Items          *handlers.ItemsHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register/", cfg.Auth.Register)
	authGroup.Post("/login/", cfg.Auth.Login)
	authGroup.Post("/token/refresh/", cfg.Auth.Refresh)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/logout/", cfg.Auth.Logout)
	authProtected.Get("/current-user/", cfg.Auth.CurrentUser)
	authProtected.Patch("/profile/", cfg.Auth.UpdateProfile)
	authProtected.Post("/password/change/", cfg.Auth.ChangePassword)

	items := api.Group("/items")
	items.Get("/", cfg.Items.List)
	items.Get("/categories/", cfg.Items.Categories)
	items.Get("/featured/", cfg.Items.Featured)
	items.Get("/stats/", cfg.Items.Stats)

	itemsProtected := items.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	itemsProtected.Post("/create/", cfg.Items.Create)
	itemsProtected.Get("/my-items/", cfg.Items.MyItems)
	itemsProtected.Post("/report/", cfg.Items.Report)
	itemsProtected.Patch("/:id/update/", cfg.Items.Update)
	itemsProtected.Delete("/:id/update/", cfg.Items.Delete)
	itemsProtected.Post("/:id/interested/", cfg.Items.MarkInterested)

	moderation := items.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	moderation.Patch("/:id/moderate/", cfg.Items.Moderate)

	// Registered after the static item subpaths so they keep precedence.
	items.Get("/:id/", cfg.Items.Get)

	orders := api.Group("/orders", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	orders.Get("/", cfg.Orders.List)
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/my-orders/", cfg.Orders.MyOrders)
	orders.Patch("/:id/", cfg.Orders.Update)
}
