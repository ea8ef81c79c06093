package middleware

import (
	"log"
	"net/http"

	"github.com/dropfour/backend/internal/config"
)

// CORS allows the configured frontend origins and answers preflights. Requests
// without an Origin header (curl, same-origin) pass through untouched.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			allowed := false
			for _, o := range config.AppConfig.AllowedOrigins {
				if o == origin {
					allowed = true
					break
				}
			}
			if !allowed {
				log.Printf("[CORS] rejected origin %q", origin)
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
