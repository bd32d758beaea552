package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-screening-booking/internal/apperror"
	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

// UserStore is the part of the user repository the handlers need.
type UserStore interface {
	Create(ctx context.Context, users ...model.NewUser) ([]model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// UserHandler manages user records. Users carry the role consulted by the
// screening rules.
type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /user.
func (h *UserHandler) Create(c echo.Context) error {
	payload, err := readJSON(c)
	if err != nil {
		return err
	}
	in, err := schema.ParseUserInsertable(payload)
	if err != nil {
		return err
	}
	created, err := h.users.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /user/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := schema.ParseUserID(c.Param("id"))
	if err != nil {
		return err
	}
	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperror.NotFound("User with given ID not found")
	}
	return c.JSON(http.StatusOK, u)
}
