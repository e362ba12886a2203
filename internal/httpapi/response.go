package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"seedling/internal/common"
)

const maxJSONBody = 1 << 20

// ErrorResponse is the error envelope every endpoint returns.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps err onto a status and a stable code. 5xx causes are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	resp := ErrorResponse{
		RequestID: common.RequestIDFromContext(r.Context()),
		Code:      common.CodeOf(err),
		Message:   common.MessageOf(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", resp.RequestID).
			Str("path", r.URL.Path).
			Msg("api error")
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads one JSON object into dst and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.Validation("invalid JSON body")
	}
	return validateStruct(dst)
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return common.Validation(strings.Join(msgs, "; "))
	}
	return common.Validation(err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// queryInt returns def when the parameter is absent and a validation error when malformed.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, common.Validation(key + " must be a non-negative integer")
	}
	return v, nil
}

func parseID(raw, name string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, common.Validation("invalid " + name)
	}
	return id, nil
}
