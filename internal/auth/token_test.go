package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, tok.Exp.After(time.Now()))

	sub, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "2", sub)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 2, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{Credential: "2"})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	id, err := p.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	_, err = Principal{Credential: "abc"}.UserID()
	assert.Error(t, err)
}
