package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractClaims(t *testing.T) {
	token, err := GenerateToken("staff-1", "staff", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, role, err := ExtractClaims(token)
	require.NoError(t, err)
	require.Equal(t, "staff-1", subject)
	require.Equal(t, "staff", role)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("staff-1", "staff", -time.Minute)
	require.NoError(t, err)

	_, _, err = ExtractClaims(token)
	require.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	_, _, err := ExtractClaims("not.a.token")
	require.Error(t, err)
}
