package routers

import (
	"github.com/go-chi/chi/v5"

	"interviewmaster/server/internal/handlers"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
)

func ChatRoutes(router *chi.Mux, chatHandler *handlers.ChatHandler) {
	router.Route("/api/v1/chat", func(r chi.Router) {
		r.Get("/", chatHandler.TranscriptHandler)
		r.Get("/ws", chatHandler.StreamHandler)
		r.With(middleware.ValidateRequest[*models.ChatSendRequest]()).Post("/messages", chatHandler.SendHandler)
		r.With(middleware.ValidateRequest[*models.PersonaRequest]()).Post("/persona", chatHandler.PersonaHandler)
		r.With(middleware.ValidateRequest[*models.ChatResetRequest]()).Post("/reset", chatHandler.ResetHandler)
	})
}
