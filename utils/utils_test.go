package utils

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "$ 0"},
		{"2000", "$ 2.000"},
		{"15000.5", "$ 15.000,50"},
		{"1234567.89", "$ 1.234.567,89"},
		{"-300", "$ -300"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(7, "owner@example.com", PurposeSession)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.RestaurantID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, PurposeSession, claims.Purpose)
}

func TestTokenManagerRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).GenerateToken(1, "a@b.co", PurposeSession)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryBlacklist(t *testing.T) {
	bl := NewMemoryBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "revoked", time.Minute))
	require.NoError(t, bl.Add(ctx, "expired", -time.Second))

	ok, err := bl.Contains(ctx, "revoked")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = bl.Contains(ctx, "expired")
	assert.False(t, ok)

	ok, _ = bl.Contains(ctx, "unknown")
	assert.False(t, ok)
}

func TestAppErrorMapping(t *testing.T) {
	err := WrapAppError(http.StatusInternalServerError, "db down", assert.AnError)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, err, assert.AnError)

	assert.True(t, HasStatus(NewConflictError("again"), http.StatusConflict))
	assert.False(t, HasStatus(assert.AnError, http.StatusBadRequest))
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(passwordCharset, r))
	}

	hash, err := HashPassword(pw, 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, pw))
	assert.False(t, CheckPassword(hash, pw+"x"))
}
