package middleware

import (
	"net/http"

	"github.com/genuxhq/genux-api/internal/api/response"
	"github.com/genuxhq/genux-api/internal/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth_token"

// Session authenticates requests by their session cookie.
type Session struct {
	codec *auth.TokenCodec
}

// NewSession creates session middleware verifying tokens with the codec.
func NewSession(codec *auth.TokenCodec) *Session {
	return &Session{codec: codec}
}

// Require rejects requests without a valid session cookie and sets the
// authenticated user ID in the request context.
func (s *Session) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := s.codec.Verify(cookie.Value)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), claims.UserID)))
	})
}
