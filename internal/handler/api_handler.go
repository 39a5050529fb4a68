package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yusufkecer/diabetes-prediction/internal/domain"
	"github.com/yusufkecer/diabetes-prediction/internal/middleware"
)

type APIHandler struct {
	assessor Assessor
	info     domain.ModelInfo
	logger   *slog.Logger
}

func NewAPIHandler(assessor Assessor, info domain.ModelInfo, logger *slog.Logger) *APIHandler {
	return &APIHandler{assessor: assessor, info: info, logger: logger}
}

func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) Model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

func (h *APIHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req domain.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Complete() {
		writeError(w, http.StatusBadRequest, "glucose, blood_pressure, insulin, bmi and age are required")
		return
	}

	in := req.Inputs()
	report, err := h.assessor.Assess(r.Context(), in)
	if err != nil {
		h.logger.WarnContext(r.Context(), "prediction failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusUnprocessableEntity, "error making prediction: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, domain.PredictResponse{Inputs: in.Normalize(), Report: report})
}
