package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID := callerID(r)
	items, err := h.deps.Notifications.GetUserNotifications(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	unread, err := h.deps.Notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"unread":        unread,
	})
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"], "notification id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Notifications.MarkAsRead(r.Context(), id, callerID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
