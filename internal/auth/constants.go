package auth

// TokensCookieName is the cookie carrying the backend-issued token bundle.
// The dashboard only checks presence and forwards the value verbatim.
const TokensCookieName = "tokens"
