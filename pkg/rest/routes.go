package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

type HttpMethod int

const (
	GET HttpMethod = iota
	POST
	PUT
	PATCH
	DELETE
)

type Route struct {
	Method      HttpMethod
	Path        string
	HandlerFunc gin.HandlerFunc
	Group       string
}

func NewRoute(method HttpMethod, group, path string, handler gin.HandlerFunc) Route {
	return Route{
		Method:      method,
		Path:        path,
		Group:       group,
		HandlerFunc: handler,
	}
}

// RegisterRoutes mounts middlewares and routes on a gin engine, grouping
// them by their Group path segment.
func RegisterRoutes(router *gin.Engine, log *logger.Logger, middlewares []Middleware, routes []Route) {
	groups := map[string]*gin.RouterGroup{}
	groupFor := func(name string) *gin.RouterGroup {
		if _, exists := groups[name]; !exists {
			groups[name] = router.Group("/" + name)
		}
		return groups[name]
	}

	for _, m := range middlewares {
		groupFor(m.Group).Use(m.Handler)
	}

	for _, r := range routes {
		group := groupFor(r.Group)

		switch r.Method {
		case GET:
			group.GET(r.Path, r.HandlerFunc)
		case POST:
			group.POST(r.Path, r.HandlerFunc)
		case PUT:
			group.PUT(r.Path, r.HandlerFunc)
		case PATCH:
			group.PATCH(r.Path, r.HandlerFunc)
		case DELETE:
			group.DELETE(r.Path, r.HandlerFunc)
		default:
			log.Warnf("Unrecognized HTTP method: %d", r.Method)
		}
	}
}
