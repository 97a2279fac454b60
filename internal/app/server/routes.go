package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bellujrb/zkvip-ethglobal/pkg/rest"
)

// Routes lists the REST surface of the gate server.
func (h *Handler) Routes() []rest.Route {
	return []rest.Route{
		rest.NewRoute(rest.POST, "v1", "/attestations", h.CreateAttestation),
		rest.NewRoute(rest.GET, "v1", "/groups/:group_id/members", h.GroupMembers),
		rest.NewRoute(rest.GET, "v1", "/groups/:group_id/members/:user_id", h.GroupMember),
		rest.NewRoute(rest.GET, "healthz", "", h.Healthz),
	}
}

// Middlewares lists the middlewares applied to the versioned API group.
func (h *Handler) Middlewares() []rest.Middleware {
	return []rest.Middleware{
		rest.NewMiddleware("v1", h.requestLogger()),
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Infof("%s %s -> %d (%s, %dms)",
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start).Milliseconds(),
		)
	}
}
