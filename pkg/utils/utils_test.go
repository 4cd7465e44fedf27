package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key := DeriveKey("secret")
	require.Len(t, key, 32)

	ciphertext, err := Encrypt([]byte("page-token"), key)
	require.NoError(t, err)
	assert.NotEqual(t, "page-token", ciphertext)

	plaintext, err := Decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, "page-token", plaintext)

	_, err = Decrypt(ciphertext, DeriveKey("other"))
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", key)
	assert.ErrorIs(t, err, errCiphertextTooShort)
}

func TestGenerateValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", "fb_1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "fb_1", claims.UserID)

	_, err = ValidateToken("wrong", token)
	assert.Error(t, err)

	expired, err := GenerateToken("secret", "fb_1", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidSession)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, transfer.CustomClaims{UserID: "fb_1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ValidateToken("secret", unsigned)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
