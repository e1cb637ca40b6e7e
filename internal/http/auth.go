package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rental-desk/internal/apiclient"
	"github.com/nurpe/rental-desk/internal/http/middleware"
	"github.com/nurpe/rental-desk/internal/service"
	"github.com/nurpe/rental-desk/internal/session"
)

func (h *Handler) login(c *gin.Context) {
	var input service.LoginInput
	if !h.bind(c, &input) {
		return
	}
	sess := session.New(
		session.NewCookieStore(c, h.session.CookieName, h.secureCookie),
		nil,
		session.Options{LoginRoute: h.session.LoginRoute},
	)
	user, err := h.svc.Users.Login(c.Request.Context(), sess, input)
	if errors.Is(err, apiclient.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": sess.Token()})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Users.Logout(middleware.Session(c)); err != nil {
		h.log.Error().Err(err).Msg("logout failed")
	}
	c.JSON(http.StatusOK, gin.H{"redirect": h.session.LoginRoute})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Users.Me(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "is_admin": principal(c).IsAdmin()})
}
