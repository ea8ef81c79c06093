package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropfour/backend/internal/config"
)

const AuthCookieName = "auth_token"

// SetAuthCookie stores the access token in an HttpOnly cookie. Cross-site
// frontends need SameSite=None, which in turn requires Secure, so that pair
// is only used in production.
func SetAuthCookie(w http.ResponseWriter, token string) {
	maxAge := config.AppConfig.AccessTokenTTLMinutes * 60
	isProduction := config.GetEnv("ENVIRONMENT", "development") == "production"

	cookie := &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	if isProduction {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// TokenFromRequest extracts the access token from the auth cookie, falling
// back to a bearer Authorization header.
func TokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if header != "" {
		return strings.TrimPrefix(header, "Bearer "), nil
	}
	return "", errors.New("no auth token in cookie or header")
}
