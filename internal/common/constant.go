package common

// Names under which the HTTP layer accepts a refresh token when it is not in
// the JSON body.
const (
	RefreshTokenHeaderName = "x-refresh-token"
	RefreshTokenQueryName  = "token"
)
