package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)
	onlyUnread := r.URL.Query().Get("unread") == "true"

	ctx := r.Context()
	response, err := h.notificationService.GetNotifications(ctx, actorFrom(r), onlyUnread, page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response, err := h.notificationService.UnreadCount(ctx, actorFrom(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "id")
	if notificationID == "" {
		writeError(w, http.StatusBadRequest, "Notification ID is required")
		return
	}

	ctx := r.Context()
	if err := h.notificationService.MarkAsRead(ctx, actorFrom(r), notificationID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Notification marked as read",
	})
}
