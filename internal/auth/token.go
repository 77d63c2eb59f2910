package auth

import (
	"net/http"
	"strings"
)

// SessionCookie is the name of the cookie the identity provider sets with
// the access token.
const SessionCookie = "sb-access-token"

const bearerPrefix = "bearer "

// ExtractToken pulls the access token out of a request. A well-formed
// Authorization header wins over the session cookie; absence of both is not
// an error, callers treat it as an unauthenticated request.
func ExtractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > len(bearerPrefix) &&
		strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token != "" {
			return token, true
		}
	}

	cookie, err := r.Cookie(SessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	return "", false
}
