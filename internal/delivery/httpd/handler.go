package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/service"
)

type Handler struct {
	studentService      service.StudentService
	teacherService      service.TeacherService
	contractService     service.ContractService
	lessonService       service.LessonService
	trialLessonService  service.TrialLessonService
	notificationService service.NotificationService
	validate            *validator.Validate
	logger              zerolog.Logger
}

func NewHandler(
	studentService service.StudentService,
	teacherService service.TeacherService,
	contractService service.ContractService,
	lessonService service.LessonService,
	trialLessonService service.TrialLessonService,
	notificationService service.NotificationService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		studentService:      studentService,
		teacherService:      teacherService,
		contractService:     contractService,
		lessonService:       lessonService,
		trialLessonService:  trialLessonService,
		notificationService: notificationService,
		validate:            validator.New(),
		logger:              logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/students", func(r chi.Router) {
			r.Post("/", h.CreateStudent)
			r.Get("/", h.GetAllStudents)
			r.Get("/{id}", h.GetStudentByID)
			r.Put("/{id}", h.UpdateStudent)
			r.Delete("/{id}", h.DeleteStudent)
			r.Get("/{id}/contracts", h.GetContractsByStudent)
		})

		api.Route("/teachers", func(r chi.Router) {
			r.Post("/", h.CreateTeacher)
			r.Get("/", h.GetAllTeachers)
			r.Get("/{id}", h.GetTeacherByID)
			r.Put("/{id}", h.UpdateTeacher)
			r.Delete("/{id}", h.DeleteTeacher)
		})

		api.Route("/contracts", func(r chi.Router) {
			r.Post("/", h.CreateContract)
			r.Get("/", h.GetAllContracts)
			r.Get("/{id}", h.GetContractByID)
			r.Put("/{id}", h.UpdateContract)
			r.Get("/{id}/lessons", h.GetContractLessons)
		})

		api.Route("/lessons", func(r chi.Router) {
			r.Put("/{id}", h.UpdateLesson)
			r.Post("/batch", h.BatchUpdateLessons)
		})

		api.Route("/trial-lessons", func(r chi.Router) {
			r.Post("/", h.CreateTrialLesson)
			r.Get("/", h.GetAllTrialLessons)
			r.Get("/{id}", h.GetTrialLessonByID)
			r.Put("/{id}", h.UpdateTrialLesson)
			r.Put("/{id}/status", h.UpdateTrialLessonStatus)
			r.Delete("/{id}", h.DeleteTrialLesson)
		})

		api.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.GetNotifications)
			r.Get("/unread-count", h.GetUnreadCount)
			r.Put("/{id}/read", h.MarkNotificationRead)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "music-school-admin",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// actorFrom извлекает роль вызывающего из заголовка. Сессии и проверка
// подлинности живут во внешнем слое, сюда приходит только результат.
func actorFrom(r *http.Request) models.Actor {
	return models.Actor{Role: r.Header.Get("X-User-Role")}
}

// handleServiceError переводит доменные ошибки в HTTP-статусы. Каждая ошибка
// валидации или целостности уходит клиенту со структурированной причиной.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var integrityErr *service.IntegrityError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &integrityErr):
		writeError(w, http.StatusUnprocessableEntity, integrityErr.Error())
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrTeacherNotFound),
		errors.Is(err, service.ErrContractNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrTrialLessonNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrContractBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
