package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community-feed-api/internal/middleware"
	"community-feed-api/internal/response"
	"community-feed-api/internal/service"
)

// requireIdentity reads the authenticated caller's identity set by the
// auth middleware. It aborts with 401 when the middleware did not run or
// the claims are missing.
func requireIdentity(c *gin.Context) (service.Identity, bool) {
	email := c.GetString(middleware.ContextUserEmail)
	if email == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return service.Identity{}, false
	}
	return service.Identity{
		Email:    email,
		Username: c.GetString(middleware.ContextUsername),
	}, true
}

// viewerEmail returns the caller's email when present and "" for
// anonymous requests. Read endpoints use it for viewer annotation only.
func viewerEmail(c *gin.Context) string {
	return c.GetString(middleware.ContextUserEmail)
}
