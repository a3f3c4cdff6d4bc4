package httpapi

import (
	"context"
	"crypto/subtle"
	"math"
	"net"
	"net/http"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/server/users"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

// userFromContext returns the authenticated user, or nil under optional auth
// when the request carried no valid session.
func userFromContext(ctx context.Context) *users.User {
	u, _ := ctx.Value(userKey).(*users.User)
	return u
}

func sessionFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}

func (a *API) resolve(r *http.Request) (*users.User, string, error) {
	sessionID := sessionIDFromRequest(r)
	u, err := a.users.ResolveSession(r.Context(), sessionID)
	if err != nil {
		return nil, "", err
	}
	return u, sessionID, nil
}

// requireAuth rejects the whole call when the session does not resolve.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, sessionID, err := a.resolve(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, u)
		ctx = context.WithValue(ctx, sessionKey, sessionID)
		next(w, r.WithContext(ctx))
	}
}

// optionalAuth attaches the user when the session resolves and proceeds
// anonymously when it does not.
func (a *API) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, sessionID, err := a.resolve(r)
		if err != nil {
			next(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, u)
		ctx = context.WithValue(ctx, sessionKey, sessionID)
		next(w, r.WithContext(ctx))
	}
}

// basicAuth gates the admin surface with a configured credential, independent
// of session cookies. Every attempt counts against the per-IP limiter before
// the credential is checked.
func (a *API) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if res := a.limiter.Hit(clientIP(r)); res.Limited {
			a.metrics.RateLimited.Inc()
			writeRateLimited(w, int(math.Ceil(res.RetryAfter.Seconds())))
			return
		}

		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.adminUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.adminPass)) == 1
		if !ok || !userOK || !passOK {
			w.Header().Set("WWW-Authenticate", `Basic realm="lumen admin"`)
			writeError(w, common.ErrUnauthorized)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
