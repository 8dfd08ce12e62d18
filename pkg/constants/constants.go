package constants

import "time"

const (
	// DefaultBaseURL is the API root used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000/api"

	DefaultHTTPTimeout = 30 * time.Second

	// AuthTokenKey and UserKey name the two entries of a persisted session.
	AuthTokenKey = "token"
	UserKey      = "user"

	RequestIDHeader = "X-Request-ID"
)

// Routes the guarded views navigate to.
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteSearch    = "/search"
	RouteGroups    = "/groups"
	RouteDoubts    = "/doubts"
)

var (
	HTTPScheme       = "http"
	HTTPSecureScheme = "https"
)
