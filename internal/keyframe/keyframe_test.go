package keyframe

import (
	"math"
	"testing"

	"github.com/corvid-games/osb-go/internal/easing"
	"github.com/stretchr/testify/require"
)

func lerpFloat(a, b float64, t float64) float64 { return a + (b-a)*t }

func TestDefaultSequenceAlwaysReturnsSentinel(t *testing.T) {
	seq := Default(1.0, lerpFloat)
	require.Equal(t, 1.0, seq.Sample(-1000))
	require.Equal(t, 1.0, seq.Sample(0))
	require.Equal(t, 1.0, seq.Sample(math.Inf(1)))
}

func TestSampleBasicFade(t *testing.T) {
	// Keyframes of spec scenario S1 (F,0,1000,2000,0,1), except that the
	// sentinel holds 1 where the compiler would emit 0.
	frames := []Keyframe[float64]{
		{Time: math.Inf(-1), Value: 1, Easing: easing.Step, ActualStartTime: math.Inf(-1)},
		{Time: 1000, Value: 0, Easing: easing.None, ActualStartTime: 1000},
		{Time: 2000, Value: 1, Easing: easing.Step, ActualStartTime: 2000},
	}
	seq := NewSequence(frames, lerpFloat)
	require.Equal(t, 1.0, seq.Sample(999))
	require.Equal(t, 0.0, seq.Sample(1000))
	require.InDelta(t, 0.5, seq.Sample(1500), 1e-9)
	require.Equal(t, 1.0, seq.Sample(2000))
	require.Equal(t, 1.0, seq.Sample(2001))
}

func TestSampleClampsRightOfLastKeyframe(t *testing.T) {
	frames := []Keyframe[float64]{
		{Time: math.Inf(-1), Value: 0, Easing: easing.Step, ActualStartTime: math.Inf(-1)},
		{Time: 100, Value: 42, Easing: easing.Step, ActualStartTime: 100},
	}
	seq := NewSequence(frames, lerpFloat)
	require.Equal(t, 42.0, seq.Sample(1_000_000))
}

func TestSampleUsesActualStartTimeForOverlap(t *testing.T) {
	// A later event truncates an earlier one visually, but the later
	// event's easing still integrates over its own original span.
	frames := []Keyframe[float64]{
		{Time: math.Inf(-1), Value: 0, Easing: easing.Step, ActualStartTime: math.Inf(-1)},
		{Time: 500, Value: 1, Easing: easing.None, ActualStartTime: 0},
		{Time: 1000, Value: 0, Easing: easing.Step, ActualStartTime: 1000},
	}
	seq := NewSequence(frames, lerpFloat)
	// t=500 is emitted-time of prev, but actual span is [0,1000) so u=0.5
	require.InDelta(t, 0.5, seq.Sample(500), 1e-9)
}
