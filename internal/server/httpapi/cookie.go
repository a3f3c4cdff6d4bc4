package httpapi

import (
	"net/http"
	"strings"

	"github.com/lumenfest/lumen/internal/common"
)

// ParseCookieHeader splits a raw Cookie header into a key/value map. Unlike
// net/http, a duplicated key resolves to its LAST occurrence; clients that
// end up with two Session-Id cookies get the one they set most recently.
func ParseCookieHeader(header string) map[string]string {
	cookies := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(value)
	}
	return cookies
}

// sessionIDFromRequest extracts the Session-Id cookie value, or "" when the
// header or the cookie is absent.
func sessionIDFromRequest(r *http.Request) string {
	return ParseCookieHeader(r.Header.Get("Cookie"))[common.SessionCookieName]
}

func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   common.SessionMaxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
