package routes

import (
	"talent-match/internal/delivery/http/handler"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	wsh    *ws.Handler
}

func NewRegistry(wsh *ws.Handler) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(),
		wsh:    wsh,
	}
}

func (r *Registry) Register(app *fiber.App, deps v1.Deps) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app, deps)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.wsh == nil {
		return
	}
	app.Get("/ws/matches", r.wsh.HandleMatchesWS)
}

func (r *Registry) registerAPI(app *fiber.App, deps v1.Deps) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), deps)
}
