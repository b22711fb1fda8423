package values

type contextKey string

const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	SystemErr      = "system_error"
	BadRequestBody = "bad_request"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not_allowed"
	Conflict       = "conflict"
	NotFound       = "not_found"
	NotAuthorised  = "unauthenticated"
	TokenExpired   = "token_expired"
	TooManyRequest = "too_many_requests"
	Unavailable    = "unavailable"
)

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

const (
	ContextTracingKey contextKey = "tracing"
	ContextUserIDKey  contextKey = "user_id"
)

// DefaultRequestSource is used when a client does not identify itself.
const DefaultRequestSource = "web"
