package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motofleet/courier-rental/internal/api/http/handlers"
	"github.com/motofleet/courier-rental/internal/auth"
	"github.com/motofleet/courier-rental/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Vehicles       *handlers.VehiclesHandler
	Couriers       *handlers.CouriersHandler
	Rentals        *handlers.RentalsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	v1 := app.Group("/v1")
	v1.Get("/plans", cfg.Rentals.Plans)

	vehicles := v1.Group("/vehicles")
	vehicles.Get("/", cfg.Vehicles.List)
	vehicles.Get("/:id", cfg.Vehicles.Get)

	adminOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin()}
	vehicles.Post("/", append(adminOnly, cfg.Vehicles.Register)...)
	vehicles.Put("/:id/plate", append(adminOnly, cfg.Vehicles.UpdatePlate)...)
	vehicles.Delete("/:id", append(adminOnly, cfg.Vehicles.Remove)...)

	couriers := v1.Group("/couriers")
	couriers.Post("/", cfg.Couriers.Register)
	couriers.Get("/:id", cfg.Couriers.Get)

	renters := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleCourier)}
	rentals := v1.Group("/rentals")
	rentals.Post("/", append(renters, cfg.Rentals.Open)...)
	rentals.Get("/:id", cfg.Rentals.Get)
	rentals.Post("/:id/return", append(renters, cfg.Rentals.Return)...)
}
