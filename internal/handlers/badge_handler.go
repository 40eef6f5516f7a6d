package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/utils"
)

// BadgeHandler renders achievement badge images.
type BadgeHandler struct {
	gateway llm.Gateway
	logger  *zap.Logger
}

func NewBadgeHandler(gateway llm.Gateway, logger *zap.Logger) *BadgeHandler {
	return &BadgeHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// GenerateHandler always answers 200: a failed or empty generation is the
// Found=false case, never an error status.
func (h *BadgeHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.BadgeRequest](r)

	badge := h.gateway.GenerateBadge(
		r.Context(),
		req.Prompt,
		models.AspectRatio(req.AspectRatio),
		models.ImageSize(req.ImageSize),
	)
	if badge == nil {
		h.logger.Info("badge generation produced no image")
		utils.JSON(w, http.StatusOK, models.BadgeResponse{Found: false})
		return
	}

	utils.JSON(w, http.StatusOK, models.BadgeResponse{
		Found: true,
		Image: badge.DataURL(),
	})
}
