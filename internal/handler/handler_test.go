package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/apperror"
	"github.com/iliyamo/cinema-screening-booking/internal/auth"
	"github.com/iliyamo/cinema-screening-booking/internal/middleware"
	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// --- Mock ScreeningService ---

type mockScreeningService struct {
	createFn func(ctx context.Context, payload any) ([]model.Screening, error)
	listFn   func(ctx context.Context) ([]model.Screening, error)
	getFn    func(ctx context.Context, rawID any) (model.Screening, error)
	deleteFn func(ctx context.Context, rawID any) (model.Screening, error)
}

func (m *mockScreeningService) Create(ctx context.Context, payload any) ([]model.Screening, error) {
	return m.createFn(ctx, payload)
}
func (m *mockScreeningService) List(ctx context.Context) ([]model.Screening, error) {
	return m.listFn(ctx)
}
func (m *mockScreeningService) Get(ctx context.Context, rawID any) (model.Screening, error) {
	return m.getFn(ctx, rawID)
}
func (m *mockScreeningService) Delete(ctx context.Context, rawID any) (model.Screening, error) {
	return m.deleteFn(ctx, rawID)
}

// --- Mock UserStore ---

type mockUserStore struct {
	createFn func(ctx context.Context, users ...model.NewUser) ([]model.User, error)
	getFn    func(ctx context.Context, id uint64) (*model.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, users ...model.NewUser) ([]model.User, error) {
	return m.createFn(ctx, users...)
}
func (m *mockUserStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return m.getFn(ctx, id)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// --- Helpers ---

var sample = model.Screening{ID: 7, MovieID: 1, Date: "2031-05-01", Time: "16:00:00", Capacity: 20}

func newEcho(svc *mockScreeningService, users *mockUserStore) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.Use(middleware.Identity(""))
	sh := NewScreeningHandler(svc)
	e.POST("/screening", sh.Create)
	e.GET("/screening", sh.List)
	e.GET("/screening/:id", sh.Get)
	e.DELETE("/screening/:id", sh.Delete)
	if users != nil {
		uh := NewUserHandler(users)
		e.POST("/user", uh.Create)
		e.GET("/user/:id", uh.Get)
	}
	return e
}

func do(e *echo.Echo, method, target, body, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- Tests ---

func TestCreateScreening_Handler_Success(t *testing.T) {
	var gotPayload any
	var gotPrincipal auth.Principal
	svc := &mockScreeningService{
		createFn: func(ctx context.Context, payload any) ([]model.Screening, error) {
			gotPayload = payload
			gotPrincipal, _ = auth.FromContext(ctx)
			return []model.Screening{sample}, nil
		},
	}
	e := newEcho(svc, nil)

	rec := do(e, http.MethodPost, "/screening", `{"movieId":1,"date":"2031-05-01","time":"16:00:00","capacity":20}`, "2")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `[{"id":7,"movieId":1,"date":"2031-05-01","time":"16:00:00","capacity":20}]`, rec.Body.String())
	assert.Equal(t, "2", gotPrincipal.Credential)
	m, ok := gotPayload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), m["movieId"])
}

func TestCreateScreening_Handler_MalformedJSONReachesService(t *testing.T) {
	var gotPayload any
	svc := &mockScreeningService{
		createFn: func(_ context.Context, payload any) ([]model.Screening, error) {
			gotPayload = payload
			return nil, apperror.Forbidden("User is not admin")
		},
	}

	rec := do(newEcho(svc, nil), http.MethodPost, "/screening", `{"movieId":`, "1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, json.RawMessage(`{"movieId":`), gotPayload)
}

func TestCreateScreening_Handler_EmptyBodyIsNil(t *testing.T) {
	called := false
	svc := &mockScreeningService{
		createFn: func(_ context.Context, payload any) ([]model.Screening, error) {
			called = true
			assert.Nil(t, payload)
			return nil, apperror.Validation(apperror.FieldError{Reason: "Expected object, received null"})
		},
	}
	rec := do(newEcho(svc, nil), http.MethodPost, "/screening", "", "2")
	assert.True(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"auth", apperror.AuthRequired("Auth data not provided"), http.StatusBadRequest, "Auth data not provided"},
		{"forbidden", apperror.Forbidden("User is not admin"), http.StatusForbidden, "User is not admin"},
		{"not found", apperror.NotFound("Screening with given Id not found"), http.StatusNotFound, "Screening with given Id not found"},
		{"unprocessable", apperror.Unprocessable("screening has still free seats"), http.StatusUnprocessableEntity, "screening has still free seats"},
		{"wrapped", errors.Join(errors.New("ctx"), apperror.Forbidden("User is not admin")), http.StatusForbidden, "User is not admin"},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockScreeningService{
				deleteFn: func(context.Context, any) (model.Screening, error) { return model.Screening{}, tc.err },
			}
			rec := do(newEcho(svc, nil), http.MethodDelete, "/screening/7", "", "2")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decodeError(t, rec).Error.Message)
		})
	}
}

func TestErrorMapping_ValidationFields(t *testing.T) {
	svc := &mockScreeningService{
		createFn: func(context.Context, any) ([]model.Screening, error) {
			return nil, apperror.Validation(apperror.FieldError{Field: "capacity", Reason: "Number must be less than or equal to 100"})
		},
	}
	rec := do(newEcho(svc, nil), http.MethodPost, "/screening", `{"capacity":101}`, "2")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.Len(t, body.Error.Fields, 1)
	assert.Equal(t, "capacity", body.Error.Fields[0].Field)
	assert.Contains(t, body.Error.Message, "capacity")
}

func TestListScreenings_Handler(t *testing.T) {
	svc := &mockScreeningService{
		listFn: func(context.Context) ([]model.Screening, error) { return []model.Screening{sample}, nil },
	}
	rec := do(newEcho(svc, nil), http.MethodGet, "/screening", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Screening
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []model.Screening{sample}, got)
}

func TestGetScreening_Handler_PassesRawID(t *testing.T) {
	svc := &mockScreeningService{
		getFn: func(_ context.Context, rawID any) (model.Screening, error) {
			assert.Equal(t, "7", rawID)
			return sample, nil
		},
	}
	rec := do(newEcho(svc, nil), http.MethodGet, "/screening/7", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"movieId":1,"date":"2031-05-01","time":"16:00:00","capacity":20}`, rec.Body.String())
}

func TestUnsupportedMethod(t *testing.T) {
	rec := do(newEcho(&mockScreeningService{}, nil), http.MethodPatch, "/screening", `{}`, "2")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec).Error.Message)
}

func TestCreateUser_Handler(t *testing.T) {
	users := &mockUserStore{
		createFn: func(_ context.Context, in ...model.NewUser) ([]model.User, error) {
			require.Len(t, in, 1)
			return []model.User{{ID: 3, UserName: in[0].UserName, Role: in[0].Role}}, nil
		},
	}
	e := newEcho(&mockScreeningService{}, users)

	rec := do(e, http.MethodPost, "/user", `{"userName":"Jonas Zimermann","role":"admin"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `[{"id":3,"userName":"Jonas Zimermann","role":"admin"}]`, rec.Body.String())

	rec = do(e, http.MethodPost, "/user", `{"userName":"Jonas","role":"superuser"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "role")

	rec = do(e, http.MethodPost, "/user", `{"userName":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed JSON", decodeError(t, rec).Error.Message)
}

func TestGetUser_Handler(t *testing.T) {
	users := &mockUserStore{
		getFn: func(_ context.Context, id uint64) (*model.User, error) {
			if id == 3 {
				return &model.User{ID: 3, UserName: "Jonas", Role: model.RoleUser}, nil
			}
			return nil, nil
		},
	}
	e := newEcho(&mockScreeningService{}, users)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/user/3", "", "").Code)

	rec := do(e, http.MethodGet, "/user/4", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User with given ID not found", decodeError(t, rec).Error.Message)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/user/abc", "", "").Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.GET("/up", Health(pingerFunc(func(context.Context) error { return nil })))
	e.GET("/down", Health(pingerFunc(func(context.Context) error { return errors.New("gone") })))

	rec := do(e, http.MethodGet, "/up", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/down", "", "").Code)
}
