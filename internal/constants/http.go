package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderPagination    = "Pagination"
	HeaderExposeHeaders = "Access-Control-Expose-Headers"
	HeaderRetryAfter    = "Retry-After"
)

// Common HTTP Error Messages
const (
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgTimeout            = "Request timeout"
	MsgTooManyRequests    = "Too many requests"
)
