package handler

import (
	"log"
	"net/http"

	"github.com/fatherhoodis/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthCallback 接收身份提供方回跳时携带的令牌，校验通过后写入会话。
func (a *API) AuthCallback(c *gin.Context) {
	if a.tokens == nil {
		a.renderNotFound(c)
		return
	}

	identity, err := a.tokens.Verify(c.Query("token"))
	if err != nil {
		log.Printf("[auth] rejected sign-in token: %v", err)
		a.renderError(c, http.StatusUnauthorized, "Sign-in failed", "Your sign-in link is invalid or has expired. Please try again.")
		return
	}

	if err := auth.SignIn(c, identity); err != nil {
		log.Printf("[auth] failed to store identity: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Sign-in failed", "We couldn't sign you in. Please try again.")
		return
	}

	c.Redirect(http.StatusSeeOther, safeRedirectTarget(c.Query("next"), "/"))
}

// Logout clears the identity from the session.
func (a *API) Logout(c *gin.Context) {
	if err := auth.SignOut(c); err != nil {
		log.Printf("[auth] failed to clear session: %v", err)
	}
	redirect(c, safeRedirectTarget(c.PostForm("next"), "/"))
}
