package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interviewmaster/server/internal/interview"
	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/utils"
)

type InterviewHandler struct {
	flows  *interview.Manager
	logger *zap.Logger
}

func NewInterviewHandler(flows *interview.Manager, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		flows:  flows,
		logger: logger,
	}
}

// CreateHandler starts a fresh flow and returns it in the topic state.
func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	flow := h.flows.Create()
	h.logger.Info("interview flow created", zap.String("flow", flow.ID()))
	utils.JSON(w, http.StatusCreated, flow.Snapshot())
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, flow.Snapshot())
}

func (h *InterviewHandler) TopicHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.TopicRequest](r)

	if err := flow.SubmitTopic(r.Context(), utils.NormalizeTopic(req.Topic)); err != nil {
		h.writeFlowError(w, flow, err)
		return
	}
	utils.JSON(w, http.StatusOK, flow.Snapshot())
}

func (h *InterviewHandler) SubtopicHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.SubtopicRequest](r)

	if err := flow.ChooseSubtopic(req.Subtopic); err != nil {
		h.writeFlowError(w, flow, err)
		return
	}
	utils.JSON(w, http.StatusOK, flow.Snapshot())
}

func (h *InterviewHandler) DifficultyHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.DifficultyRequest](r)
	difficulty, _ := models.CanonicalDifficulty(req.Difficulty)

	if err := flow.ChooseDifficulty(r.Context(), difficulty); err != nil {
		h.writeFlowError(w, flow, err)
		return
	}
	utils.JSON(w, http.StatusOK, flow.Snapshot())
}

// AnswerHandler validates one submission. Rejected answers are a normal
// outcome, reported through the snapshot's banner rather than an error
// status.
func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)

	if _, err := flow.SubmitAnswer(r.Context(), req.OptionIndex, req.Explanation); err != nil {
		h.writeFlowError(w, flow, err)
		return
	}
	utils.JSON(w, http.StatusOK, flow.Snapshot())
}

func (h *InterviewHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := flow.Advance(r.Context()); err != nil {
		h.writeFlowError(w, flow, err)
		return
	}
	utils.JSON(w, http.StatusOK, flow.Snapshot())
}

func (h *InterviewHandler) lookup(w http.ResponseWriter, r *http.Request) (*interview.Flow, bool) {
	id := chi.URLParam(r, "id")
	flow, exists := h.flows.Get(id)
	if !exists {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "No interview flow with that id",
		})
		return nil, false
	}
	return flow, true
}

// writeFlowError maps flow errors to HTTP statuses. Remote failures carry
// the provider's error code so the client can distinguish rate limits.
func (h *InterviewHandler) writeFlowError(w http.ResponseWriter, flow *interview.Flow, err error) {
	var providerErr *llm.ProviderError
	switch {
	case errors.Is(err, interview.ErrWrongState), errors.Is(err, interview.ErrAnswerPending):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "wrong_state",
			Message: err.Error(),
		})
	case errors.Is(err, interview.ErrIncompleteSubmission):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "incomplete_submission",
			Message: err.Error(),
		})
	case errors.As(err, &providerErr):
		h.logger.Error("provider call failed",
			zap.String("flow", flow.ID()),
			zap.String("code", providerErr.Code),
			zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    providerErr.Code,
			Message: providerErr.Message,
		})
	default:
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	}
}
