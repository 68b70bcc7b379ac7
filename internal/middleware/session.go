package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/boomsweeper/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// Session puts the claims of a valid session cookie into the request
// context. Broken or expired cookies are cleared.
func Session(logger *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseSessionClaims(r)
			if err != nil {
				if _, cookieErr := r.Cookie("auth"); !errors.Is(cookieErr, http.ErrNoCookie) {
					logger.Debug("dropping session cookie", slog.Any("error", err))
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionClaims returns the claims Session stored in ctx, if any.
func SessionClaims(ctx context.Context) (*config.SessionClaims, bool) {
	claims, ok := ctx.Value(CtxSessionClaims).(*config.SessionClaims)
	return claims, ok
}
