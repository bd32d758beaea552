package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-screening-booking/internal/handler"
)

// Deps carries everything the routes need. Cache and RateLimit may be
// pass-through middleware when Redis is unavailable.
type Deps struct {
	Health     echo.HandlerFunc
	Screenings *handler.ScreeningHandler
	Users      *handler.UserHandler
	Cache      echo.MiddlewareFunc
	RateLimit  echo.MiddlewareFunc
}

// RegisterRoutes registers every route on the provided Echo instance. Reads
// of /screening are served through the response cache; mutations go through
// the rate limiter. Verbs not listed here answer 405.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health)

	s := e.Group("/screening")
	s.POST("", d.Screenings.Create, d.RateLimit)
	s.GET("", d.Screenings.List, d.Cache)
	s.GET("/:id", d.Screenings.Get, d.Cache)
	s.DELETE("/:id", d.Screenings.Delete, d.RateLimit)

	u := e.Group("/user")
	u.POST("", d.Users.Create, d.RateLimit)
	u.GET("/:id", d.Users.Get)
}
