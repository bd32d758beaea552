package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

// ScreeningHandler exposes the screening lifecycle over HTTP. It only moves
// data between the request and the service; every rule, the caller's
// authority included, is decided by the service.
type ScreeningHandler struct {
	svc service.ScreeningService
}

func NewScreeningHandler(svc service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{svc: svc}
}

// Create handles POST /screening and answers 201 with the stored rows.
func (h *ScreeningHandler) Create(c echo.Context) error {
	payload, err := readJSON(c)
	if err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /screening.
func (h *ScreeningHandler) List(c echo.Context) error {
	all, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

// Get handles GET /screening/:id.
func (h *ScreeningHandler) Get(c echo.Context) error {
	s, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /screening/:id and answers with the removed row.
func (h *ScreeningHandler) Delete(c echo.Context) error {
	s, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
