package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"stipendia/internal"
	"stipendia/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyActor contextKey = "actor"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth verifies the session token and places the resulting actor
// in the request context. The role comes from the verified claims, never
// from anything the client sends in the body.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := s.accessToken(r)
		if !ok {
			s.writeJSON(w, http.StatusUnauthorized, errorBody("missing credentials"))
			return
		}

		set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch JWKS")
			s.writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
			return
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKeySet(set),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Debug("failed to parse JWT")
			s.writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
			return
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			s.logger.Error("no user ID in JWT subject claim")
			s.writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
			return
		}

		var email string
		if err := token.Get("email", &email); err != nil {
			s.logger.WithError(err).Warn("no email claim in JWT")
		}

		var role string
		if err := token.Get("custom:role", &role); err != nil || role == "" {
			role = string(types.RoleApplicant)
		}

		actor := types.Actor{
			ID:      userID,
			Contact: email,
			Role:    types.Role(role),
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": actor.ID,
			"role":    actor.Role,
		}).Debug("authenticated actor")

		ctx := context.WithValue(r.Context(), contextKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessToken prefers the encrypted cookie set at login and falls back
// to a bearer token for API clients.
func (s *Service) accessToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME); err == nil {
		var accessToken string
		if err := s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken); err == nil {
			return accessToken, true
		}
		s.logger.Debug("failed to decrypt access token cookie")
	}

	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token, true
	}

	return "", false
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
