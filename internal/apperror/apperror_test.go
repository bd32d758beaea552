package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:    http.StatusBadRequest,
		KindAuthRequired:  http.StatusBadRequest,
		KindBadRequest:    http.StatusBadRequest,
		KindForbidden:     http.StatusForbidden,
		KindNotFound:      http.StatusNotFound,
		KindUnprocessable: http.StatusUnprocessableEntity,
		KindInternal:      http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestValidation_MessageNamesFields(t *testing.T) {
	err := Validation(
		FieldError{Field: "capacity", Reason: "must be at most 100"},
		FieldError{Field: "date", Reason: "is required"},
	)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Error(), "capacity")
	assert.Contains(t, err.Error(), "date")
	assert.Len(t, err.Fields, 2)
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create screening: %w", Forbidden("User is not admin"))
	assert.Equal(t, KindForbidden, KindOf(err))

	e, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "User is not admin", e.Message)

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFieldError_JSONOmitsEmptyField(t *testing.T) {
	whole, err := json.Marshal(FieldError{Reason: "Expected object, received array"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"reason":"Expected object, received array"}`, string(whole))

	named, err := json.Marshal(FieldError{Field: "capacity", Reason: "Required"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"field":"capacity","reason":"Required"}`, string(named))
}
