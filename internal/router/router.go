package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/dayplan"
	"github.com/stridehq/stride-lambda/internal/focus"
	"github.com/stridehq/stride-lambda/internal/goal"
	"github.com/stridehq/stride-lambda/internal/middlewares"
	"github.com/stridehq/stride-lambda/internal/stats"
	"github.com/stridehq/stride-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler    *user.Handler
	GoalHandler    *goal.Handler
	DayPlanHandler *dayplan.Handler
	StatsHandler   *stats.Handler
	FocusHandler   *focus.Handler
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.UserHandler.GoogleLogin)
		r.Post("/refresh", cfg.UserHandler.RefreshToken)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/goals", goal.Routes(cfg.GoalHandler))
		r.Mount("/days", dayplan.Routes(cfg.DayPlanHandler))
		r.Mount("/stats", stats.Routes(cfg.StatsHandler))
		r.Mount("/focus", focus.Routes(cfg.FocusHandler))
		r.Mount("/users", user.Routes(cfg.UserHandler))
	})

	return r
}
