package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"seedling/internal/chat/repository"
	"seedling/internal/chat/service"
	"seedling/internal/common"
)

const multipartOverhead = 1 << 20

type textMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) sendText(w http.ResponseWriter, r *http.Request) {
	var req textMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	msg, err := h.deps.Chat.SendText(r.Context(), callerID(r), mux.Vars(r)["userID"], req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// sendImage takes the multipart field "image".
func (h *Handler) sendImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.deps.MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, common.Validation("image is too large"))
			return
		}
		writeError(w, r, common.ErrInvalidImage)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, common.ErrInvalidImage)
		return
	}
	defer file.Close()

	res, err := h.deps.Chat.SendImage(r.Context(), callerID(r), mux.Vars(r)["userID"], service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// conversation returns the caller's messages with another user, oldest first.
// ?limit and ?before page backwards from a message id.
func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page := repository.Page{Limit: limit}
	if raw := r.URL.Query().Get("before"); raw != "" {
		before, err := parseID(raw, "before")
		if err != nil {
			writeError(w, r, err)
			return
		}
		page.BeforeID = before
	}

	msgs, err := h.deps.Chat.ListConversation(r.Context(), callerID(r), mux.Vars(r)["userID"], page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["messageID"], "message id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Chat.DeleteMessage(r.Context(), id, callerID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.deps.Chat.MarkConversationRead(r.Context(), callerID(r), mux.Vars(r)["conversationID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": count})
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.deps.Chat.UnreadCount(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *Handler) inbox(w http.ResponseWriter, r *http.Request) {
	items, err := h.deps.Chat.Inbox(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": items})
}
