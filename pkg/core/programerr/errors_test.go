package programerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	require.Equal(t, CodeOK, Code(nil))
	require.Equal(t, CodeUnknown, Code(errors.New("whatever")))

	for _, c := range codes {
		require.Equal(t, c.code, Code(c.err))
		require.Equal(t, c.code, Code(fmt.Errorf("wrapped: %w", c.err)))
		require.Equal(t, c.err, FromCode(c.code))
	}
	require.Nil(t, FromCode(CodeOK))
	require.Nil(t, FromCode(CodeUnknown))
}
