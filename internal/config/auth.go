package config

import "time"

// Auth backends understood by AuthBackend.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// AuthBackend selects the auth service adapter: the storefront API or the local sqlite store.
func AuthBackend() string {
	return GetEnv("AUTH_BACKEND", BackendRemote)
}

// AuthAPIURL is the storefront API base URL used by the remote backend.
func AuthAPIURL() string {
	return GetEnv("AUTH_API_URL", "http://localhost:5000")
}

// AuthAPITimeout bounds each call against the storefront API.
func AuthAPITimeout() time.Duration {
	return MustParseDuration("AUTH_API_TIMEOUT", "5s")
}

// DBPath is the sqlite file used by the local backend.
func DBPath() string {
	return GetEnv("DB_PATH", "authscreen.db")
}

func JWTSecret() string {
	return MustGetEnv("JWT_SECRET")
}

func JWTIssuer() string {
	return GetEnv("JWT_ISSUER", "casa-comfort")
}

// SessionTTL is the lifetime of the session cookie issued after login.
func SessionTTL() time.Duration {
	return MustParseDuration("SESSION_TTL", "24h")
}

// SecureCookies marks cookies Secure; disable only for plain-HTTP development.
func SecureCookies() bool {
	return GetBool("SECURE_COOKIES", true)
}

// ScreenTTL is how long an untouched auth screen keeps its form state.
func ScreenTTL() time.Duration {
	return MustParseDuration("SCREEN_TTL", "30m")
}

// MaxScreens caps the number of live auth screens.
func MaxScreens() int {
	return parseIntEnv("MAX_SCREENS", 10_000)
}

// WaitTimeout bounds how long a pending page waits for its mutation before re-rendering.
func WaitTimeout() time.Duration {
	return MustParseDuration("WAIT_TIMEOUT", "3s")
}

// HomePath is where the browser goes once logged in or registered.
func HomePath() string {
	return GetEnv("HOME_PATH", "/")
}

// ResetURL is the page linked from password reset mails; the token is appended as a query parameter.
func ResetURL() string {
	return GetEnv("RESET_URL", "http://localhost:8080/auth/reset")
}

// ResetTokenTTL is the lifetime of a password reset token issued by the local backend.
func ResetTokenTTL() time.Duration {
	return MustParseDuration("RESET_TOKEN_TTL", "30m")
}
