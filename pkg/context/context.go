package ctxutil

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/userhub/internal/constants"
	"github.com/google/uuid"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey = constants.CtxKeyRequestID
	ClientIPKey  = constants.CtxKeyClientIP
	UserAgentKey = constants.CtxKeyUserAgent
	StartTimeKey = constants.CtxKeyStartTime
	ModuleKey    = constants.CtxKeyModule
	FunctionKey  = constants.CtxKeyFunction
)

// WithValue adds a value to context
func WithValue(ctx context.Context, key ContextKey, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

// WithTimeout wraps context.WithTimeout
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// NewContextWithRequest builds a request-scoped context carrying tracing
// metadata. The request ID is taken from the X-Request-ID header when the
// caller supplied one, otherwise generated.
func NewContextWithRequest(ctx context.Context, r *http.Request, module, function string) context.Context {
	requestID := r.Header.Get(constants.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	ctx = context.WithValue(ctx, ClientIPKey, clientIP(r))
	ctx = context.WithValue(ctx, UserAgentKey, r.UserAgent())
	ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	ctx = context.WithValue(ctx, ModuleKey, module)
	ctx = context.WithValue(ctx, FunctionKey, function)
	return ctx
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if ip := r.Header.Get(constants.HeaderXForwardedFor); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// GetRequestID returns the request ID from context
func GetRequestID(ctx context.Context) string {
	return getString(ctx, RequestIDKey)
}

// GetClientIP returns the client IP from context
func GetClientIP(ctx context.Context) string {
	return getString(ctx, ClientIPKey)
}

// GetUserAgent returns the user agent from context
func GetUserAgent(ctx context.Context) string {
	return getString(ctx, UserAgentKey)
}

// GetModule returns the module name from context
func GetModule(ctx context.Context) string {
	return getString(ctx, ModuleKey)
}

// GetFunction returns the function name from context
func GetFunction(ctx context.Context) string {
	return getString(ctx, FunctionKey)
}

// GetStartTime returns the request start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(StartTimeKey).(time.Time)
	return t, ok
}

// GetDuration returns the elapsed time since the request started
func GetDuration(ctx context.Context) time.Duration {
	if start, ok := GetStartTime(ctx); ok {
		return time.Since(start)
	}
	return 0
}

func getString(ctx context.Context, key ContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
