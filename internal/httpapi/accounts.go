package httpapi

import (
	"net/http"

	"seedling/internal/user"
)

type registerRequest struct {
	Handle      string `json:"handle" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

type loginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.deps.Accounts.RegisterUser(r.Context(), user.RegisterInput{
		Handle:      req.Handle,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.deps.Accounts.LoginUser(r.Context(), req.Handle, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.deps.Accounts.GetProfile(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs user.Preferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.deps.Accounts.UpdatePreferences(r.Context(), callerID(r), prefs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
