package handlers

import (
	"time"

	applog "pintare/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// AuthLimiter throttles credential endpoints per client IP.
func AuthLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Muitas tentativas. Tente novamente mais tarde."})
		},
	})
}

// Routes mounts the public API on app. authLimit, when set, guards
// registration and login.
func Routes(app *fiber.App, d *Deps, authLimit fiber.Handler) {
	if authLimit == nil {
		authLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Backend Pintare está operacional!"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api")

	// Catalog
	api.Get("/produtos", d.ProductHandler.List)
	api.Get("/filtros", d.ProductHandler.Filters)
	api.Get("/produtos/home", d.ProductHandler.Home)
	api.Get("/produtos/:id", d.ProductHandler.Detail)

	// Accounts
	api.Post("/auth/registrar", authLimit, d.AuthHandler.Register)
	api.Post("/auth/login", authLimit, d.AuthHandler.Login)

	authed := RequireAuth(d.Sessions)
	api.Get("/perfil", authed, d.AuthHandler.Perfil)
	api.Get("/auth/me", authed, d.AuthHandler.Me)
	api.Put("/auth/me", authed, d.AuthHandler.UpdateMe)

	// Quotes
	api.Post("/orcamentos", authed, d.QuoteHandler.Submit)
	api.Get("/orcamentos", authed, d.QuoteHandler.History)

	// Admin
	admin := api.Group("/admin", authed, RequireAdmin())
	admin.Get("/check", d.AuthHandler.AdminCheck)
	admin.Post("/produtos", d.AdminHandler.CreateProduct)
	admin.Put("/produtos/:id", d.AdminHandler.UpdateProduct)
	admin.Delete("/produtos/:id", d.AdminHandler.DeleteProduct)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Rota não encontrada."})
	})
}
