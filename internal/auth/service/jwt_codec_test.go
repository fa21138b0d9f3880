package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	"github.com/allisson/authd/internal/config"
	apperrors "github.com/allisson/authd/internal/errors"
)

func testCodecConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:     "test-secret",
		AccessTokenIssuer:     "authd",
		AccessTokenExpiration: time.Hour,
	}
}

func TestNewJWTCodec_EmptySecret(t *testing.T) {
	cfg := testCodecConfig()
	cfg.AccessTokenSecret = ""

	codec, err := NewJWTCodec(cfg)
	assert.Error(t, err)
	assert.Nil(t, codec)
}

func TestJWTCodec_EncodeDecode(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	principalID := uuid.Must(uuid.NewV7())

	token, expiresAt, err := codec.Encode(principalID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, 5*time.Second)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, principalID, decoded)
}

func TestJWTCodec_Decode_Garbage(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	_, err = codec.Decode("not-a-token")
	assert.ErrorIs(t, err, authDomain.ErrMalformedToken)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestJWTCodec_Decode_WrongAlgorithm(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	// A token signed with HS256 must be rejected even with the right key.
	key, err := deriveSigningKey([]byte("test-secret"))
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"iss": "authd",
		"sub": "auth",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"uid": uuid.Must(uuid.NewV7()).String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, authDomain.ErrMalformedToken)
}

func TestJWTCodec_Decode_WrongKey(t *testing.T) {
	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	otherCfg := testCodecConfig()
	otherCfg.AccessTokenSecret = "another-secret"
	otherCodec, err := NewJWTCodec(otherCfg)
	require.NoError(t, err)

	token, _, err := otherCodec.Encode(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, authDomain.ErrBadSignature)
}

func TestJWTCodec_Decode_Expired(t *testing.T) {
	cfg := testCodecConfig()
	cfg.AccessTokenExpiration = -time.Minute

	codec, err := NewJWTCodec(cfg)
	require.NoError(t, err)

	token, _, err := codec.Encode(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
}

func TestJWTCodec_Decode_WrongIssuer(t *testing.T) {
	otherCfg := testCodecConfig()
	otherCfg.AccessTokenIssuer = "someone-else"
	otherCodec, err := NewJWTCodec(otherCfg)
	require.NoError(t, err)

	codec, err := NewJWTCodec(testCodecConfig())
	require.NoError(t, err)

	token, _, err := otherCodec.Encode(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, authDomain.ErrMalformedToken)
}

func TestRefreshTokenService_GenerateToken(t *testing.T) {
	svc := NewRefreshTokenService()

	first, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
