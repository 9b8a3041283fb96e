package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig holds the values written on every response.
type SecurityHeadersConfig struct {
	FrameOptions            string
	ContentTypeOptions      string
	ContentSecurityPolicy   string
	StrictTransportSecurity string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CrossOriginOpenerPolicy string
	CrossOriginResource     string
	// RemoveHeaders are deleted just before the response is committed.
	RemoveHeaders []string
}

// DefaultSecurityHeadersConfig denies framing, pins content to self and asks
// browsers for a year of HTTPS.
var DefaultSecurityHeadersConfig = SecurityHeadersConfig{
	FrameOptions:            "DENY",
	ContentTypeOptions:      "nosniff",
	ContentSecurityPolicy:   "default-src 'self'; script-src 'self'; style-src 'self'; object-src 'none'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains; preload",
	ReferrerPolicy:          "strict-origin-when-cross-origin",
	PermissionsPolicy:       "camera=(), microphone=(), geolocation=(), payment=()",
	CrossOriginOpenerPolicy: "same-origin",
	CrossOriginResource:     "same-origin",
	RemoveHeaders:           []string{echo.HeaderServer, "X-Powered-By"},
}

// SecureHeaders applies DefaultSecurityHeadersConfig.
func SecureHeaders() echo.MiddlewareFunc {
	return SecureHeadersWithConfig(DefaultSecurityHeadersConfig)
}

// SecureHeadersWithConfig writes the headers before calling the next handler,
// so they are present whatever the outcome, error responses included. HSTS is
// sent on plain HTTP too because TLS usually terminates at the proxy.
func SecureHeadersWithConfig(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	set := [][2]string{
		{echo.HeaderXFrameOptions, cfg.FrameOptions},
		{echo.HeaderXContentTypeOptions, cfg.ContentTypeOptions},
		{echo.HeaderContentSecurityPolicy, cfg.ContentSecurityPolicy},
		{echo.HeaderStrictTransportSecurity, cfg.StrictTransportSecurity},
		{echo.HeaderReferrerPolicy, cfg.ReferrerPolicy},
		{"Permissions-Policy", cfg.PermissionsPolicy},
		{"Cross-Origin-Opener-Policy", cfg.CrossOriginOpenerPolicy},
		{"Cross-Origin-Resource-Policy", cfg.CrossOriginResource},
		{echo.HeaderXXSSProtection, "0"},
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			h := res.Header()
			for _, kv := range set {
				if kv[1] != "" {
					h.Set(kv[0], kv[1])
				}
			}
			res.Before(func() {
				for _, name := range cfg.RemoveHeaders {
					res.Header().Del(name)
				}
			})
			return next(c)
		}
	}
}
