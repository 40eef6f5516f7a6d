package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"interviewmaster/server/internal/config"
	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/prompts"
	"interviewmaster/server/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type HealthHandler struct {
	gateway llm.Gateway
	prompts prompts.Provider
	db      *gorm.DB
	config  *config.Config
}

func NewHealthHandler(gateway llm.Gateway, pm prompts.Provider, db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		gateway: gateway,
		prompts: pm,
		db:      db,
		config:  cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interviewmaster",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	// verify the AI gateway is initialized
	if handler.gateway == nil {
		checks["gateway"] = ReadinessCheck{
			Status:  "failed",
			Message: "AI gateway not initialized",
		}
		allChecksPass = false
	} else {
		checks["gateway"] = ReadinessCheck{Status: "ok"}
	}

	// verify prompt templates are loaded
	if handler.prompts == nil || len(handler.prompts.Variants("question")) == 0 {
		checks["prompts"] = ReadinessCheck{
			Status:  "failed",
			Message: "No prompt templates loaded",
		}
		allChecksPass = false
	} else {
		checks["prompts"] = ReadinessCheck{Status: "ok"}
	}

	// verify the store answers
	if handler.db == nil {
		checks["storage"] = ReadinessCheck{
			Status:  "failed",
			Message: "Database not initialized",
		}
		allChecksPass = false
	} else if sqlDB, err := handler.db.DB(); err != nil || sqlDB.Ping() != nil {
		checks["storage"] = ReadinessCheck{
			Status:  "failed",
			Message: "Database not reachable",
		}
		allChecksPass = false
	} else {
		checks["storage"] = ReadinessCheck{Status: "ok"}
	}

	// verify configuration is loaded
	if handler.config == nil {
		checks["configuration"] = ReadinessCheck{
			Status:  "failed",
			Message: "Configuration not loaded",
		}
		allChecksPass = false
	} else {
		checks["configuration"] = ReadinessCheck{Status: "ok"}
	}

	response := ReadinessResponse{
		Service: "interviewmaster",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
