package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	teacher, err := h.teacherService.CreateTeacher(ctx, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, teacher)
}

func (h *Handler) GetTeacherByID(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "id")
	if teacherID == "" {
		writeError(w, http.StatusBadRequest, "Teacher ID is required")
		return
	}

	ctx := r.Context()
	teacher, err := h.teacherService.GetTeacherByID(ctx, teacherID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, teacher)
}

func (h *Handler) GetAllTeachers(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)

	ctx := r.Context()
	teachers, total, err := h.teacherService.GetAllTeachers(ctx, page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"teachers": teachers,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}

	writeSuccess(w, response)
}

func (h *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "id")
	if teacherID == "" {
		writeError(w, http.StatusBadRequest, "Teacher ID is required")
		return
	}

	var req models.CreateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if err := h.teacherService.UpdateTeacher(ctx, teacherID, &req); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Teacher updated successfully",
	})
}

func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "id")
	if teacherID == "" {
		writeError(w, http.StatusBadRequest, "Teacher ID is required")
		return
	}

	ctx := r.Context()
	if err := h.teacherService.DeleteTeacher(ctx, teacherID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Teacher deleted successfully",
	})
}
