package httpapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"seedling/internal/common"
	"seedling/internal/match"
)

const billingSignatureHeader = "X-Billing-Signature"

func (h *Handler) sendSeed(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Seeds.SendSeed(r.Context(), callerID(r), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) seedStatus(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Seeds.Status(r.Context(), callerID(r), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Seeds.Balance(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := h.deps.Seeds.History(r.Context(), callerID(r), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": entries})
}

func (h *Handler) matches(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.deps.Seeds.ListMatches(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": profiles})
}

// billingEvent accepts provider webhooks authenticated by a shared secret.
func (h *Handler) billingEvent(w http.ResponseWriter, r *http.Request) {
	sig := r.Header.Get(billingSignatureHeader)
	if h.deps.BillingSecret == "" || subtle.ConstantTimeCompare([]byte(sig), []byte(h.deps.BillingSecret)) != 1 {
		writeError(w, r, common.Unauthenticated("invalid billing signature"))
		return
	}

	var event match.BillingEvent
	if err := decodeJSON(w, r, &event); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Seeds.ApplyBillingEvent(r.Context(), event); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}
