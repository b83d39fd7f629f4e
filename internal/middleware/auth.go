// Package middleware содержит HTTP middleware экранов терминала официанта.
package middleware

import (
	"encoding/json"
	"net/http"
)

// SessionGuard пропускает запросы только при авторизованном сотруднике.
type SessionGuard struct {
	authenticated func() bool
	message       string
}

// NewSessionGuard создаёт проверку сессии. message возвращается клиенту при отказе.
func NewSessionGuard(authenticated func() bool, message string) *SessionGuard {
	if message == "" {
		message = http.StatusText(http.StatusUnauthorized)
	}
	return &SessionGuard{
		authenticated: authenticated,
		message:       message,
	}
}

// Middleware отвечает 401, если сессии нет.
func (g *SessionGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.authenticated == nil || !g.authenticated() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": g.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}
