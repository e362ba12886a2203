package common

import "context"

type ctxKey int

const (
	userIDKey ctxKey = iota
	handleKey
	requestIDKey
)

// WithIdentity injects the authenticated caller into ctx
func WithIdentity(ctx context.Context, userID, handle string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, handleKey, handle)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func HandleFromContext(ctx context.Context) string {
	h, _ := ctx.Value(handleKey).(string)
	return h
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
