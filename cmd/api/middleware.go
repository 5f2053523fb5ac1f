package main

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"strings"

	"souq/internal/i18n"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const localeCtx ctxKey = "locale"

// checkAdmin compares credentials against the configured admin user and its
// bcrypt hash.
func (app *application) checkAdmin(user, pass string) bool {
	basic := app.config.auth.basic
	if basic.user == "" || basic.passHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(basic.user)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(basic.passHash), []byte(pass))
	return userOK && passErr == nil
}

// basicCredentials reads an "Authorization: Basic ..." header.
func basicCredentials(r *http.Request) (string, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", fmt.Errorf("authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Basic" {
		return "", "", fmt.Errorf("authorization header is malformed")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", err
	}

	creds := strings.SplitN(string(decoded), ":", 2)
	if len(creds) != 2 {
		return "", "", fmt.Errorf("authorization header is malformed")
	}
	return creds[0], creds[1], nil
}

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, err := basicCredentials(r)
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}
			if !app.checkAdmin(user, pass) {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuthMiddleware requires a valid admin bearer token.
func (app *application) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
			return
		}

		if _, err := app.authenticator.ValidateToken(parts[1]); err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.enabled && app.rateLimiter != nil {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP drops the port from RemoteAddr so every connection from one
// address shares a window. RealIP has already run when a proxy header is set.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleMiddleware resolves the {locale} path segment. Only the canonical
// lowercase codes are served so cached pages have a single path.
func (app *application) LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "locale")
		l, ok := i18n.Parse(raw)
		if !ok || string(l) != raw {
			app.notFoundResponse(w, r, fmt.Errorf("unknown locale %q", raw))
			return
		}

		ctx := context.WithValue(r.Context(), localeCtx, l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getLocale(r *http.Request) i18n.Locale {
	if l, ok := r.Context().Value(localeCtx).(i18n.Locale); ok {
		return l
	}
	return i18n.Default
}
