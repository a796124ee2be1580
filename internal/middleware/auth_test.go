package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndanilov/inventory_api/internal/apperror"
)

func TestBearerToken(t *testing.T) {
	raw, err := bearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", raw)

	raw, err = bearerToken("bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", raw)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc.def.ghi"} {
		_, err := bearerToken(header)
		require.Error(t, err, "header %q should be rejected", header)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		require.Equal(t, apperror.Unauthenticated, appErr.Kind)
	}
}
