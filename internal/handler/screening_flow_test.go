package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/middleware"
	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

// memScreenings is an in-memory service.ScreeningStore.
type memScreenings struct {
	rows   map[uint64]model.Screening
	nextID uint64
}

func newMemScreenings() *memScreenings {
	return &memScreenings{rows: map[uint64]model.Screening{}, nextID: 1}
}

func (m *memScreenings) Insert(_ context.Context, records ...model.NewScreening) ([]model.Screening, error) {
	out := make([]model.Screening, 0, len(records))
	for _, r := range records {
		s := model.Screening{ID: m.nextID, MovieID: r.MovieID, Date: r.Date, Time: r.Time, Capacity: r.Capacity}
		m.rows[s.ID] = s
		m.nextID++
		out = append(out, s)
	}
	return out, nil
}

func (m *memScreenings) GetByID(_ context.Context, id uint64) (*model.Screening, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memScreenings) GetAll(_ context.Context) ([]model.Screening, error) {
	out := []model.Screening{}
	for id := uint64(1); id < m.nextID; id++ {
		if s, ok := m.rows[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScreenings) DeleteByID(_ context.Context, id uint64) (*model.Screening, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	delete(m.rows, id)
	return &s, nil
}

type rolesFunc func(ctx context.Context, id uint64) (model.Role, bool, error)

func (f rolesFunc) RoleOf(ctx context.Context, id uint64) (model.Role, bool, error) { return f(ctx, id) }

type moviesFunc func(ctx context.Context, id uint64) (bool, error)

func (f moviesFunc) Exists(ctx context.Context, id uint64) (bool, error) { return f(ctx, id) }

// newServiceEcho serves the routes over a real screening service. User 1 is
// a plain user, user 2 an admin, and only movie 133093 exists.
func newServiceEcho(store *memScreenings) *echo.Echo {
	roles := rolesFunc(func(_ context.Context, id uint64) (model.Role, bool, error) {
		switch id {
		case 1:
			return model.RoleUser, true, nil
		case 2:
			return model.RoleAdmin, true, nil
		}
		return "", false, nil
	})
	movies := moviesFunc(func(_ context.Context, id uint64) (bool, error) { return id == 133093, nil })
	svc := service.NewScreeningService(store, roles, movies, service.Options{
		ListPolicy: service.EmptyListNotFound,
		Now:        func() time.Time { return time.Date(2030, 6, 15, 10, 30, 0, 0, time.UTC) },
	})

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.Use(middleware.Identity(""))
	sh := NewScreeningHandler(svc)
	e.POST("/screening", sh.Create)
	e.GET("/screening", sh.List)
	e.GET("/screening/:id", sh.Get)
	e.DELETE("/screening/:id", sh.Delete)
	return e
}

const validScreening = `{"movieId":133093,"date":"2030-06-20","time":"17:00:00","capacity":30}`

func TestCreateScreening_MalformedBody_RoleCheckedFirst(t *testing.T) {
	store := newMemScreenings()
	e := newServiceEcho(store)

	rec := do(e, http.MethodPost, "/screening", `{"movieId":`, "1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User is not admin", decodeError(t, rec).Error.Message)

	rec = do(e, http.MethodPost, "/screening", `{"movieId":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Auth data not provided", decodeError(t, rec).Error.Message)

	rec = do(e, http.MethodPost, "/screening", `{"movieId":`, "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed JSON", decodeError(t, rec).Error.Message)

	assert.Empty(t, store.rows)
}

func TestCreateScreening_AdminArrayPayload(t *testing.T) {
	store := newMemScreenings()
	e := newServiceEcho(store)

	rec := do(e, http.MethodPost, "/screening", "["+validScreening+"]", "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Expected object, received array", body.Error.Message)
	require.Len(t, body.Error.Fields, 1)
	assert.Empty(t, body.Error.Fields[0].Field)
	assert.NotContains(t, rec.Body.String(), `"field"`)
	assert.Empty(t, store.rows)
}

func TestCreateScreening_RoundTrip(t *testing.T) {
	e := newServiceEcho(newMemScreenings())

	rec := do(e, http.MethodGet, "/screening", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPost, "/screening", validScreening, "2")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created []model.Screening
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 1)
	row := created[0]
	assert.Equal(t, model.Screening{ID: row.ID, MovieID: 133093, Date: "2030-06-20", Time: "17:00:00", Capacity: 30}, row)

	rec = do(e, http.MethodGet, "/screening/"+jsonID(row.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Screening
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, row, got)

	rec = do(e, http.MethodGet, "/screening", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []model.Screening
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Contains(t, all, row)
}

func jsonID(id uint64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
