package middleware // middleware provides shared request processing for handlers

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-screening-booking/internal/auth"
)

// Identity returns an Echo middleware that turns the Authorization header
// into an auth.Principal on the request context. Two forms are accepted:
//
//	Authorization: 2
//	Authorization: Bearer <jwt>
//
// The bare form carries the user id as is. The Bearer form is only honoured
// when jwtSecret is set; the token's subject becomes the credential. A token
// that fails verification yields an empty credential, which the screening
// rules report as missing auth data. Requests without the header carry no
// principal at all. The middleware never rejects a request itself.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return next(c)
			}
			p := auth.Principal{Credential: header}
			if raw, ok := bearer(header); ok && jwtSecret != "" {
				sub, err := auth.ParseAccessToken(jwtSecret, raw)
				if err != nil {
					c.Logger().Debugf("identity: rejected bearer token: %v", err)
					p = auth.Principal{}
				} else {
					p = auth.Principal{Credential: sub, Verified: true}
				}
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):]), true
	}
	return "", false
}

// userKey identifies the caller for rate limiting: the credential when a
// principal is present, otherwise "anon".
func userKey(c echo.Context) string {
	if p, ok := auth.FromContext(c.Request().Context()); ok && p.Credential != "" {
		return p.Credential
	}
	return "anon"
}
