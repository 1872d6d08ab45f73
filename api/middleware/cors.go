package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://electronicmusicbook.com",
	"https://www.electronicmusicbook.com",
}

// CORS returns middleware that applies the storefront's allowed origin policy.
// Credentials must be allowed for the admin session cookie.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Confirm-Delete", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
