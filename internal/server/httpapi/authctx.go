package httpapi

import "context"

type ctxKey string

const (
	userIDKey    ctxKey = "gl.userID"
	requestIDKey ctxKey = "gl.requestID"
)

// WithUserID stores the authenticated user ID in ctx.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx fetches the user ID stored by the auth middleware.
func UserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// RequestIDFromCtx returns the request id assigned by the RequestID middleware.
func RequestIDFromCtx(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}
