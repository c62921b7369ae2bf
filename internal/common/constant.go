package common

// Cookie names carrying the access and refresh tokens.
const (
	AccessTokenCookieName  = "Soup-Access-Token"
	RefreshTokenCookieName = "Soup-Refresh-Token"
)

// RefreshPath is the only route the refresh cookie is scoped to.
const RefreshPath = "/refresh"

// AuthorizationHeaderName is the header a non-browser client may use to send
// the access token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
