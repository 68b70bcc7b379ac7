package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets the listed origins call the api with credentials. No origins
// means any origin.
func Cors(origins ...string) Middleware {
	options := cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		options.AllowOriginFunc = func(string) bool { return true }
	} else {
		options.AllowedOrigins = origins
	}
	return cors.New(options).Handler
}
