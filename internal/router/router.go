package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nursultan-dev/campus-hub-api/internal/config"
	"github.com/nursultan-dev/campus-hub-api/internal/handler"
	"github.com/nursultan-dev/campus-hub-api/internal/middleware"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	StudentHandler  *handler.StudentHandler
	TaxonomyHandler *handler.TaxonomyHandler
	PointsHandler   *handler.PointsHandler
	ForumHandler    *handler.ForumHandler
	AdminHandler    *handler.AdminHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	requireAdmin := middleware.RequireRole(models.RoleAdmin)
	requireStudent := middleware.RequireRole(models.RoleStudent)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)

		// Admin registration runs through the JWT guard without requiring
		// a token, so an authenticated admin is recognised while the first
		// bootstrap call still goes through.
		adminAuth := api.Group("/auth/admin", middleware.RateLimit("auth", 20, time.Minute), optional(jwtMiddleware))
		deps.AuthHandler.RegisterAdminRoutes(adminAuth)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware, requireStudent)
		deps.StudentHandler.Register(students)
	}

	if deps.TaxonomyHandler != nil {
		vocab := api.Group("/vocabulary", jwtMiddleware)
		deps.TaxonomyHandler.Register(vocab)

		adminVocab := api.Group("/admin/vocabulary", jwtMiddleware, requireAdmin)
		deps.TaxonomyHandler.RegisterAdminRoutes(adminVocab)
	}

	if deps.PointsHandler != nil {
		points := api.Group("/points", jwtMiddleware)
		deps.PointsHandler.Register(points)

		adminPoints := api.Group("/admin", jwtMiddleware, requireAdmin)
		deps.PointsHandler.RegisterAdminRoutes(adminPoints)
	}

	if deps.ForumHandler != nil {
		forum := api.Group("/forum", jwtMiddleware)
		deps.ForumHandler.Register(forum)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, requireAdmin)
		deps.AdminHandler.Register(admin)
	}
}

// optional wraps an auth middleware so that requests without an
// Authorization header pass through unauthenticated.
func optional(authMiddleware fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return authMiddleware(c)
	}
}
