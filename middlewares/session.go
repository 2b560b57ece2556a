package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ContextKey string

const (
	sessionContextKey ContextKey = "session"

	SessionCookieName = "restro_session"
)

// SessionMiddleware makes sure every request carries a session id, issuing a
// new cookie when the visitor has none or an unparseable one.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIDFromCookie(r)
		if !ok {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID returns the id set by SessionMiddleware, or "" outside it.
func GetSessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionContextKey).(string)
	return id
}

func sessionIDFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
