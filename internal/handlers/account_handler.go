package handlers

import (
	"math"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/storage"
	"interviewmaster/server/internal/utils"
)

// AccountHandler serves the profile, session history, and dashboard stats.
type AccountHandler struct {
	store  *storage.Gateway
	logger *zap.Logger
}

func NewAccountHandler(store *storage.Gateway, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		store:  store,
		logger: logger,
	}
}

func (h *AccountHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := h.store.User()
	if user == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "no_profile",
			Message: "No profile stored",
		})
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// SaveProfileHandler creates or updates the profile. A new profile gets a
// generated id; an existing one keeps it.
func (h *AccountHandler) SaveProfileHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ProfileRequest](r)

	user := h.store.User()
	if user == nil {
		user = &models.User{ID: uuid.New().String()}
	}
	user.Name = req.Name
	user.Email = req.Email
	user.IsGuest = req.IsGuest
	if user.IsGuest && user.Name == "" {
		user.Name = "Guest"
	}
	user.Preferences.Theme = models.Theme(req.Theme)

	if err := h.store.SaveUser(user); err != nil {
		h.logger.Error("failed to save profile", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "storage_error",
			Message: "Failed to save profile",
		})
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// DeleteProfileHandler signs the user out by dropping the stored profile.
// Session history and the chat transcript are left intact.
func (h *AccountHandler) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearUser(); err != nil {
		h.logger.Error("failed to clear profile", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "storage_error",
			Message: "Failed to clear profile",
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *AccountHandler) SessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions := h.store.Sessions()
	if sessions == nil {
		sessions = []models.InterviewSession{}
	}
	utils.JSON(w, http.StatusOK, sessions)
}

// DashboardHandler aggregates the stored sessions: totals, overall
// average, last activity, and a per-topic average for the chart.
func (h *AccountHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	sessions := h.store.Sessions()

	response := models.DashboardResponse{
		TotalInterviews: len(sessions),
		Topics:          []models.TopicStats{},
	}

	if len(sessions) > 0 {
		total := 0
		for _, session := range sessions {
			total += session.Score
		}
		response.AverageScore = int(math.Round(float64(total) / float64(len(sessions))))
		response.LastActive = sessions[len(sessions)-1].Date
	}

	for topic, group := range h.store.SessionsByTopic() {
		total := 0
		for _, session := range group {
			total += session.Score
		}
		response.Topics = append(response.Topics, models.TopicStats{
			Topic:        topic,
			AverageScore: int(math.Round(float64(total) / float64(len(group)))),
			Sessions:     len(group),
		})
	}
	sort.Slice(response.Topics, func(i, j int) bool {
		return response.Topics[i].Topic < response.Topics[j].Topic
	})

	utils.JSON(w, http.StatusOK, response)
}
