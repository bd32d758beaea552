package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

func TestParseUserInsertable(t *testing.T) {
	u, err := ParseUserInsertable(map[string]any{"userName": "Jim Carry", "role": "user"})
	require.NoError(t, err)
	assert.Equal(t, "Jim Carry", u.UserName)
	assert.Equal(t, model.RoleUser, u.Role)

	_, err = ParseUserInsertable(map[string]any{"userName": "Jim", "role": "superuser"})
	assertFieldError(t, err, "role")

	_, err = ParseUserInsertable(map[string]any{"userName": "", "role": "admin"})
	assertFieldError(t, err, "userName")

	_, err = ParseUserInsertable(map[string]any{"userName": "abcdefghijklmnopqrstuvwxyz", "role": "admin"})
	assertFieldError(t, err, "userName")
}

func TestParseUserID(t *testing.T) {
	id, err := ParseUserID("2")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	_, err = ParseUserID("admin")
	assertFieldError(t, err, "userId")
}
