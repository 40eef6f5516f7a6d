package routers

import (
	"github.com/go-chi/chi/v5"

	"interviewmaster/server/internal/handlers"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
)

func AccountRoutes(router *chi.Mux, accountHandler *handlers.AccountHandler, badgeHandler *handlers.BadgeHandler, exportHandler *handlers.ExportHandler) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/profile", accountHandler.GetProfileHandler)
		r.With(middleware.ValidateRequest[*models.ProfileRequest]()).Put("/profile", accountHandler.SaveProfileHandler)
		r.Delete("/profile", accountHandler.DeleteProfileHandler)

		r.Get("/sessions", accountHandler.SessionsHandler)
		r.Post("/sessions/export", exportHandler.RunHandler)
		r.Get("/dashboard", accountHandler.DashboardHandler)

		r.With(middleware.ValidateRequest[*models.BadgeRequest]()).Post("/badges", badgeHandler.GenerateHandler)
	})
}
