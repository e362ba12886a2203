package common

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind classifies failures so transports can map them without string matching.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindUnauthenticated     Kind = "unauthenticated"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindDuplicateSeed       Kind = "duplicate_seed"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal_error"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches two AppErrors by code so wrapped copies of a sentinel still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

func newErr(kind Kind, code, message string) *AppError {
	if code == "" {
		code = string(kind)
	}
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Validation(msg string) error          { return newErr(KindValidation, "", msg) }
func Unauthenticated(msg string) error     { return newErr(KindUnauthenticated, "", msg) }
func Forbidden(msg string) error           { return newErr(KindForbidden, "", msg) }
func NotFound(msg string) error            { return newErr(KindNotFound, "", msg) }
func InsufficientBalance(msg string) error { return newErr(KindInsufficientBalance, "", msg) }
func DuplicateSeed(msg string) error       { return newErr(KindDuplicateSeed, "", msg) }
func Conflict(msg string) error            { return newErr(KindConflict, "", msg) }

// Internal wraps a transient store/transport fault.
func Internal(msg string, cause error) error {
	e := newErr(KindInternal, "", msg)
	e.Cause = cause
	return e
}

var (
	ErrUserNotFound         = newErr(KindNotFound, "user_not_found", "user not found")
	ErrMessageNotFound      = newErr(KindNotFound, "message_not_found", "message not found")
	ErrNotificationNotFound = newErr(KindNotFound, "notification_not_found", "notification not found")
	ErrNotMatched           = newErr(KindForbidden, "not_matched", "you can only message users you have matched with")
	ErrNotMessageOwner      = newErr(KindForbidden, "not_message_owner", "only the sender can delete a message")
	ErrNotParticipant       = newErr(KindForbidden, "not_participant", "you are not part of this conversation")
	ErrSelfSeed             = newErr(KindValidation, "self_seed", "cannot send a seed to yourself")
	ErrEmptyMessage         = newErr(KindValidation, "empty_message", "message content cannot be empty")
	ErrInvalidImage         = newErr(KindValidation, "invalid_image", "a valid image file is required")
	ErrInsufficientSeeds    = newErr(KindInsufficientBalance, "insufficient_balance", "not enough seeds")
	ErrSeedAlreadySent      = newErr(KindDuplicateSeed, "duplicate_seed", "seed already sent to this user")
	ErrHandleTaken          = newErr(KindConflict, "handle_taken", "handle is already taken")
	ErrInvalidCredentials   = newErr(KindUnauthenticated, "invalid_credentials", "invalid handle or password")
)

// KindOf returns the Kind of the first AppError in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf returns the stable client-facing code for err.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return string(KindInternal)
}

// MessageOf hides internal causes from clients.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientBalance:
		return http.StatusPaymentRequired
	case KindDuplicateSeed, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func GRPCCode(err error) codes.Code {
	switch KindOf(err) {
	case KindValidation:
		return codes.InvalidArgument
	case KindUnauthenticated:
		return codes.Unauthenticated
	case KindForbidden:
		return codes.PermissionDenied
	case KindNotFound:
		return codes.NotFound
	case KindInsufficientBalance:
		return codes.FailedPrecondition
	case KindDuplicateSeed:
		return codes.AlreadyExists
	case KindConflict:
		return codes.Aborted
	default:
		return codes.Internal
	}
}
