package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"interviewmaster/server/internal/jobs"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/utils"
)

// ExportHandler triggers a session export outside the cron schedule.
type ExportHandler struct {
	exporter *jobs.SessionExporterJob
	logger   *zap.Logger
}

func NewExportHandler(exporter *jobs.SessionExporterJob, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		logger:   logger,
	}
}

func (h *ExportHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.exporter.RunManual(); err != nil {
		h.logger.Error("manual export failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "export_failed",
			Message: "Failed to export sessions",
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "exported"})
}
