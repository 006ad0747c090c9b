package config

import "fmt"

// cacheKeyBuilder centralizes Redis key construction so key formats
// live in one place.
type cacheKeyBuilder struct{}

// CacheKey is the shared Redis key builder.
var CacheKey = cacheKeyBuilder{}

// SessionKey maps a JWT ID to its owning user while the session is live.
func (cacheKeyBuilder) SessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// ResetTokenKey holds a pending password-reset token.
func (cacheKeyBuilder) ResetTokenKey(token string) string {
	return fmt.Sprintf("pwreset:%s", token)
}

// QuizPayloadKey caches the sanitized quiz payload served to attempters.
func (cacheKeyBuilder) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}
