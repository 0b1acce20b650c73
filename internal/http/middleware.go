package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const (
	boxIDKey     ctxKey = "box_id"
	requestIDKey ctxKey = "request_id"

	// SessionCookie carries the box id of a browser session.
	SessionCookie = "box_session"
	sessionMaxAge = 365 * 24 * 60 * 60
)

// SessionMiddleware reads the box id from the session cookie and issues a
// new one when it is missing or not a uuid.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var boxID string
		if c, err := r.Cookie(SessionCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				boxID = id.String()
			}
		}
		if boxID == "" {
			boxID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    boxID,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), boxIDKey, boxID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getBoxIDFromContext(ctx context.Context) string {
	if boxID, ok := ctx.Value(boxIDKey).(string); ok {
		return boxID
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
