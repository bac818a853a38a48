package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", 42, RoleTeacher, time.Hour)
	require.NoError(t, err)

	id, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Role: RoleTeacher}, id)
}

func TestWrongSecret(t *testing.T) {
	token, err := GenerateToken("s3cret", 42, RoleStudent, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	claims := jwt.MapClaims{"sub": 1, "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ParseToken("s3cret", token)
	assert.Error(t, err)
}

func TestMissingRoleDefaultsToStudent(t *testing.T) {
	claims := jwt.MapClaims{"sub": 9, "exp": time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	id, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, id.Role)
}

func TestMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{"role": RoleTeacher, "exp": time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ParseToken("s3cret", token)
	assert.ErrorContains(t, err, "sub")
}
