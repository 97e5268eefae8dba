package common

// AuthorizationHeaderName carries the bearer token on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// TokenType is returned alongside access tokens by the login endpoint.
const TokenType = "bearer"

// OTPDigits is the fixed width of one-time codes.
const OTPDigits = 6
