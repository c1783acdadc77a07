package constants

// HTTP Header Names
const (
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// Query Parameter Names
const (
	QueryParamActive = "active"
	QueryParamQuery  = "query"
	QueryParamLimit  = "limit"
	QueryParamToken  = "token"
)

// Query Defaults
const (
	DefaultSearchLimit = 25
)

// Common HTTP Error Messages
const (
	MsgBadRequest = "Invalid request"
)
