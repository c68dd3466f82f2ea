package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecms/api/models"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Generate(&models.Admin{ID: 9, Email: "ed@example.com"})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.AdminID)
	assert.Equal(t, "ed@example.com", claims.Email)
	assert.Equal(t, "9", claims.Subject)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	admin := &models.Admin{ID: 1, Email: "ed@example.com"}

	other, err := NewJWTManager("other", time.Hour).Generate(admin)
	require.NoError(t, err)
	_, err = m.Validate(other)
	assert.Error(t, err, "wrong secret")

	expired, err := NewJWTManager("secret", -time.Minute).Generate(admin)
	require.NoError(t, err)
	_, err = m.Validate(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{AdminID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: jwtIssuer}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{AdminID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"}})
	signed, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Validate(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWTManager_RequiresSecret(t *testing.T) {
	m := NewJWTManager("", time.Hour)
	_, err := m.Generate(&models.Admin{ID: 1})
	assert.Error(t, err)
	_, err = m.Validate("anything")
	assert.Error(t, err)
}

func TestParseOptionalID(t *testing.T) {
	id, err := ParseOptionalID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = ParseOptionalID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), *id)

	for _, raw := range []string{"0", "-3", "abc", "4.2"} {
		_, err := ParseOptionalID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseLimit(t *testing.T) {
	n, err := ParseLimit("", 100)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ParseLimit("5", 100)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = ParseLimit("500", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	_, err = ParseLimit("0", 100)
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"1", "true", "TRUE", "yes", "on"} {
		assert.True(t, ParseBool(raw), raw)
	}
	for _, raw := range []string{"", "0", "false", "nope"} {
		assert.False(t, ParseBool(raw), raw)
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
	assert.False(t, strings.HasPrefix(BearerToken("Bearer x"), "Bearer"))
}
