package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/auth"
	"github.com/nurpe/rental-desk/internal/config"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/session"
)

const (
	principalKey = "principal"
	sessionKey   = "session"
	redirectKey  = "redirect"
)

// Auth resolves the operator token from the Authorization header or the
// session cookie and attaches a request-scoped session to the context.
func Auth(parser *auth.Parser, cfg config.SessionConfig, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var store session.Store
		token := bearerToken(c.GetHeader("Authorization"))
		if token != "" {
			store = session.NewMemoryStore(token)
		} else {
			cookies := session.NewCookieStore(c, cfg.CookieName, secureCookie)
			token, _ = cookies.Load()
			store = cookies
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token", "redirect": cfg.LoginRoute})
			return
		}

		principal, err := parser.Parse(token)
		if err != nil {
			_ = store.Clear()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "redirect": cfg.LoginRoute})
			return
		}

		nav := session.NewRedirectRecorder(c.Request.URL.Path)
		sess := session.New(store, nav, session.Options{LoginRoute: cfg.LoginRoute, RedirectDelay: cfg.RedirectDelay})

		c.Set(principalKey, principal)
		c.Set(sessionKey, sess)
		c.Set(redirectKey, nav)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Next()
	}
}

// RequireAdmin hides mutating routes from non-admin operators. The backend
// enforces the same rule.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := v.(model.Principal)
	return principal, ok
}

func Session(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// Redirect returns the navigator that records where an expired session
// sends the operator.
func Redirect(c *gin.Context) *session.RedirectRecorder {
	v, ok := c.Get(redirectKey)
	if !ok {
		return nil
	}
	nav, _ := v.(*session.RedirectRecorder)
	return nav
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
