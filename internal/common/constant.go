package common

// ReservedUsername cannot be registered: it collides with the /users/me/
// profile route.
const ReservedUsername = "me"

// AuthHeaderName and AuthScheme describe how access credentials are carried.
const (
	AuthHeaderName = "Authorization"
	AuthScheme     = "Bearer"
)
