package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLerp(t *testing.T) {
	require.Equal(t, 0.0, Lerp(0, 10, 0))
	require.Equal(t, 10.0, Lerp(0, 10, 1))
	require.Equal(t, 5.0, Lerp(0, 10, 0.5))
}

func TestLerpPair(t *testing.T) {
	got := LerpPair(Pair{0, 0}, Pair{100, 200}, 0.5)
	require.Equal(t, Pair{50, 100}, got)
}

func TestLerpColor(t *testing.T) {
	got := LerpColor(Color{0, 0, 0}, Color{1, 1, 1}, 0.25)
	require.InDelta(t, 0.25, got.R, 1e-9)
	require.InDelta(t, 0.25, got.G, 1e-9)
	require.InDelta(t, 0.25, got.B, 1e-9)
}
