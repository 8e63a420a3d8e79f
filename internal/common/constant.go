package common

// AuthorizationHeader carries the bearer token on API requests.
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)
