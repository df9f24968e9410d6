package common

// RefreshTokenCookieName is the cookie used to carry the refresh token
// between the browser and the auth endpoints.
const RefreshTokenCookieName = "refreshToken"

// AuthorizationHeaderName carries the bearer access token on
// authenticated requests.
const AuthorizationHeaderName = "Authorization"
