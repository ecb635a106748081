package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tenant-exit-portal/internal/session"
)

const sessionKey = "portal_session_state"

// RequireRole lets a request through only when its signed session holds one of
// roles. Page requests are redirected to the login page, API and fragment
// requests get 401.
func RequireRole(cookies session.Cookies, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := cookies.Read(c)
		if st.LoggedIn() && hasRole(roles, st.Role) {
			c.Set(sessionKey, st)
			c.Next()
			return
		}
		if wantsRedirect(c) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
	}
}

// Session returns the state stored by RequireRole, or the zero State on
// routes it does not guard.
func Session(c *gin.Context) session.State {
	if v, ok := c.Get(sessionKey); ok {
		return v.(session.State)
	}
	return session.State{}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func wantsRedirect(c *gin.Context) bool {
	p := c.Request.URL.Path
	if strings.HasPrefix(p, "/api/") || strings.Contains(p, "/fragments/") {
		return false
	}
	return c.Request.Method == http.MethodGet || c.Request.Method == http.MethodPost
}
