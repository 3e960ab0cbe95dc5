package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/econova/nova-api/internal/api/middleware"
	"github.com/econova/nova-api/internal/api/shared"
	"github.com/econova/nova-api/internal/nova"
)

// AnalysisHandler exposes the analysis orchestrator over HTTP: submission
// endpoints for each task family and the polling endpoint clients use to
// retrieve results.
type AnalysisHandler struct {
	orchestrator *nova.Orchestrator
	logger       *slog.Logger
	validate     *validator.Validate
}

// NewAnalysisHandler creates an AnalysisHandler with the given dependencies.
func NewAnalysisHandler(orchestrator *nova.Orchestrator, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		orchestrator: orchestrator,
		logger:       logger,
		validate:     validator.New(),
	}
}

// SubmitSalesAnalysis handles POST /api/nova/analysis/sales.
func (h *AnalysisHandler) SubmitSalesAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SalesAnalysisRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.orchestrator.SubmitSalesUpload(r.Context(), nova.SalesUploadData{
		Summary:   req.Summary,
		RowCount:  req.RowCount,
		Companies: req.Companies,
	}, owner, req.CompanyID)

	h.respondSubmission(w, r, id, err)
}

// SubmitDocumentAnalysis handles POST /api/nova/analysis/documents.
func (h *AnalysisHandler) SubmitDocumentAnalysis(w http.ResponseWriter, r *http.Request) {
	h.submitDocumentFamily(w, r, h.orchestrator.SubmitDocument)
}

// SubmitVoucherAnalysis handles POST /api/nova/analysis/vouchers.
func (h *AnalysisHandler) SubmitVoucherAnalysis(w http.ResponseWriter, r *http.Request) {
	h.submitDocumentFamily(w, r, h.orchestrator.SubmitVoucher)
}

// GetAnalysis handles GET /api/nova/analysis/{id}. The response body is the
// stored result as-is, including its status tag, so the client can tell
// "still running" from "done" from "failed".
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.orchestrator.GetResult(id, caller)
	switch {
	case errors.Is(err, nova.ErrNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, nova.ErrForbidden):
		shared.RespondWithError(w, r, http.StatusForbidden, err.Error())
	case err != nil:
		h.logger.Error("analysis lookup failed", "analysis_id", id, "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
	default:
		shared.RespondWithJSON(w, r, http.StatusOK, result)
	}
}

func (h *AnalysisHandler) submitDocumentFamily(
	w http.ResponseWriter,
	r *http.Request,
	submit func(ctx context.Context, data nova.DocumentData, owner string) (string, error),
) {
	owner, ok := callerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req DocumentAnalysisRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id, err := submit(r.Context(), nova.DocumentData{
		FileName: req.FileName,
		Fields:   req.Fields,
	}, owner)

	h.respondSubmission(w, r, id, err)
}

func (h *AnalysisHandler) respondSubmission(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, nova.ErrTooManyAnalyses) {
		shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, err.Error(), err)
		return
	}
	if err != nil {
		h.logger.Error("analysis submission failed", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitAnalysisResponse{AnalysisID: id})
}

func (h *AnalysisHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// callerID returns the authenticated caller identity as the owner string the
// orchestrator stores on records.
func callerID(r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		return "", false
	}
	return userID.String(), true
}
