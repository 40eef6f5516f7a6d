package routers

import (
	"github.com/go-chi/chi/v5"

	"interviewmaster/server/internal/handlers"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Post("/", interviewHandler.CreateHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.With(middleware.ValidateRequest[*models.TopicRequest]()).Post("/{id}/topic", interviewHandler.TopicHandler)
		r.With(middleware.ValidateRequest[*models.SubtopicRequest]()).Post("/{id}/subtopic", interviewHandler.SubtopicHandler)
		r.With(middleware.ValidateRequest[*models.DifficultyRequest]()).Post("/{id}/difficulty", interviewHandler.DifficultyHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/{id}/answer", interviewHandler.AnswerHandler)
		r.Post("/{id}/advance", interviewHandler.AdvanceHandler)
	})
}
