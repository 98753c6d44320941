package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetColorFromString(t *testing.T) {
	t.Parallel()

	c := GetColorFromString("#FF0000")
	require.Equal(t, "#ff0000", c.Hex())

	c = GetColorFromString("blue")
	require.Equal(t, "#0000ff", c.Hex())

	// Unknown tags fall back to white.
	c = GetColorFromString("not-a-color")
	require.Equal(t, "#ffffff", c.Hex())
}
