package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	iat := time.Now().Truncate(time.Second)
	exp := iat.Add(24 * time.Hour)

	tok, err := GenerateToken(42, secret, iat, exp)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IssuedAt.Time.Equal(iat))
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}

func TestGenerateToken_PayloadShape(t *testing.T) {
	t.Parallel()

	iat := time.Unix(1_700_000_000, 0)
	tok, err := GenerateToken(7, []byte("k"), iat, iat.Add(time.Hour))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, map[string]any{
		"userId": float64(7),
		"iat":    float64(1_700_000_000),
		"exp":    float64(1_700_003_600),
	}, payload)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateToken(1, []byte("secret"), now.Add(-25*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"))
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_ExpiredPerInjectedClock(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateToken(1, []byte("secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"), jwt.WithTimeFunc(func() time.Time { return now.Add(2 * time.Hour) }))
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateToken(2, []byte("right-secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_TamperedSignature(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateToken(3, []byte("secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(flipLastSignatureChar(tok), []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := ParseToken(tok, []byte("k"))
		assert.ErrorIs(t, err, common.ErrInvalidToken, "token %q", tok)
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: 4,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	tok, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_MissingUserID(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateToken(0, []byte("secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

// flipLastSignatureChar changes one character of the signature segment.
func flipLastSignatureChar(tok string) string {
	b := []byte(tok)
	i := len(b) - 2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
