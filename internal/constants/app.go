package constants

// Gin context keys set by the auth middleware.
const (
	CtxUserID = "user_id"
)

// HTTP header values.
const (
	HeaderAuthorization = "Authorization"
	BearerScheme        = "Bearer"
)

// OAuth state claims.
const (
	StateIssuer   = "job-tracker-api"
	StateAudience = "google-oauth"
)
