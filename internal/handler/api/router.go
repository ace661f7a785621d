package api

import (
	xhttp "AtxEngine/pkg/http"

	"github.com/labstack/echo/v4"
)

// Router bundles the read and admin handlers into one route registrar.
type Router struct {
	atx   *ATXHandler
	admin *AdminHandler
}

func NewRouter(atx *ATXHandler, admin *AdminHandler) *Router {
	return &Router{atx: atx, admin: admin}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.atx.RegisterRoutes(e)
	r.admin.RegisterRoutes(e)
}

var _ xhttp.Handler = (*Router)(nil)
