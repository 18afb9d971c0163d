package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePairAndParse(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "carmarket-test", 15*time.Minute, time.Hour)

	access, refresh, exp, err := tm.GeneratePair("u-1", "admin")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, isRefresh, err := tm.ParseAny(access)
	require.NoError(t, err)
	assert.False(t, isRefresh)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "carmarket-test", claims.Issuer)

	claims, isRefresh, err = tm.ParseAny(refresh)
	require.NoError(t, err)
	assert.True(t, isRefresh)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestParseAny_WrongSecret(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "carmarket-test", 15*time.Minute, time.Hour)
	other := NewTokenManager("different", "secrets", "carmarket-test", 15*time.Minute, time.Hour)

	access, _, _, err := tm.GeneratePair("u-1", "user")
	require.NoError(t, err)

	_, _, err = other.ParseAny(access)
	require.Error(t, err)
}

func TestParseAny_Expired(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "carmarket-test", -time.Minute, -time.Minute)

	access, _, _, err := tm.GeneratePair("u-1", "user")
	require.NoError(t, err)

	_, _, err = tm.ParseAny(access)
	require.Error(t, err)
}

func TestParseAny_Garbage(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "carmarket-test", 15*time.Minute, time.Hour)
	_, _, err := tm.ParseAny("not.a.token")
	require.Error(t, err)
}
