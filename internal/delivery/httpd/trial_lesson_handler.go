package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

func (h *Handler) CreateTrialLesson(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrialLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	trialLesson, err := h.trialLessonService.CreateTrialLesson(ctx, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, trialLesson)
}

func (h *Handler) GetTrialLessonByID(w http.ResponseWriter, r *http.Request) {
	trialLessonID := chi.URLParam(r, "id")
	if trialLessonID == "" {
		writeError(w, http.StatusBadRequest, "Trial lesson ID is required")
		return
	}

	ctx := r.Context()
	trialLesson, err := h.trialLessonService.GetTrialLessonByID(ctx, trialLessonID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, trialLesson)
}

func (h *Handler) GetAllTrialLessons(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)

	ctx := r.Context()
	trialLessons, total, err := h.trialLessonService.GetAllTrialLessons(ctx, page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"trial_lessons": trialLessons,
		"total":         total,
		"page":          page,
		"limit":         limit,
	}

	writeSuccess(w, response)
}

func (h *Handler) UpdateTrialLesson(w http.ResponseWriter, r *http.Request) {
	trialLessonID := chi.URLParam(r, "id")
	if trialLessonID == "" {
		writeError(w, http.StatusBadRequest, "Trial lesson ID is required")
		return
	}

	var req models.CreateTrialLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if err := h.trialLessonService.UpdateTrialLesson(ctx, trialLessonID, &req); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Trial lesson updated successfully",
	})
}

func (h *Handler) UpdateTrialLessonStatus(w http.ResponseWriter, r *http.Request) {
	trialLessonID := chi.URLParam(r, "id")
	if trialLessonID == "" {
		writeError(w, http.StatusBadRequest, "Trial lesson ID is required")
		return
	}

	var req models.UpdateTrialLessonStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if err := h.trialLessonService.UpdateTrialLessonStatus(ctx, trialLessonID, req.Status); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Trial lesson status updated successfully",
	})
}

func (h *Handler) DeleteTrialLesson(w http.ResponseWriter, r *http.Request) {
	trialLessonID := chi.URLParam(r, "id")
	if trialLessonID == "" {
		writeError(w, http.StatusBadRequest, "Trial lesson ID is required")
		return
	}

	ctx := r.Context()
	if err := h.trialLessonService.DeleteTrialLesson(ctx, trialLessonID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Trial lesson deleted successfully",
	})
}
