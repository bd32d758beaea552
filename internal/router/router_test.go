package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-screening-booking/internal/handler"
)

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, Deps{
		Health:     handler.Health(nil),
		Screenings: handler.NewScreeningHandler(nil),
		Users:      handler.NewUserHandler(nil),
		Cache:      passThrough,
		RateLimit:  passThrough,
	})

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /screening",
		"GET /screening",
		"GET /screening/:id",
		"DELETE /screening/:id",
		"POST /user",
		"GET /user/:id",
	} {
		assert.True(t, got[want], want)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/screening/1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
