// Package keyframe holds the compiled, per-property timeline the
// keyframe compiler produces and the binary-search sampler that reads
// it back at an arbitrary query time.
package keyframe

import (
	"math"
	"sort"

	"github.com/corvid-games/osb-go/internal/easing"
)

// Keyframe is one point in a compiled per-property timeline. Time is
// non-decreasing across a Sequence. ActualStartTime differs from Time
// only for tail keyframes that inherit an earlier emitted time while
// still easing over their original span (see Sequence.Sample).
type Keyframe[T any] struct {
	Time            float64
	Value           T
	Easing          easing.Easing
	ActualStartTime float64
}

// LerpFunc blends two values of T at normalized progress t in [0,1].
type LerpFunc[T any] func(a, b T, t float64) T

// Sequence is an ordered, non-decreasing keyframe timeline for one
// property channel. It always begins with a sentinel at -Inf.
type Sequence[T any] struct {
	frames []Keyframe[T]
	lerp   LerpFunc[T]
}

// NewSequence wraps an already-ordered keyframe slice. Callers (the
// keyframe compiler) are responsible for the non-decreasing-time and
// leading-sentinel invariants; NewSequence does not re-sort.
func NewSequence[T any](frames []Keyframe[T], lerp LerpFunc[T]) *Sequence[T] {
	return &Sequence[T]{frames: frames, lerp: lerp}
}

// Default builds the single-sentinel sequence used when no applicable
// event exists for a channel (§4.E "default initial value").
func Default[T any](value T, lerp LerpFunc[T]) *Sequence[T] {
	return NewSequence([]Keyframe[T]{{
		Time:            math.Inf(-1),
		Value:           value,
		Easing:          easing.Step,
		ActualStartTime: math.Inf(-1),
	}}, lerp)
}

// Frames exposes the compiled keyframes, read-only, for callers that
// need to inspect the timeline directly (tests, diagnostics).
func (s *Sequence[T]) Frames() []Keyframe[T] {
	return s.frames
}

// Sample returns the channel's value at time t, per §4.E:
//  1. find the first keyframe with time > t; call it next, and the one
//     before it prev.
//  2. if prev's easing is Step, return prev's value verbatim.
//  3. otherwise linearly interpolate prev->next using prev's easing,
//     normalizing time against prev's ActualStartTime rather than its
//     emitted Time (which an overlap may have placed later than the
//     event's true start).
//
// If t is past every real keyframe, the last keyframe's value is
// returned (clamp-right); the leading -Inf sentinel guarantees a
// defined result for any t.
func (s *Sequence[T]) Sample(t float64) T {
	nextIdx := sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].Time > t
	})
	if nextIdx == 0 {
		// t is before every keyframe, including the -Inf sentinel: cannot
		// happen for finite t, but return the sentinel's value defensively.
		return s.frames[0].Value
	}
	prev := s.frames[nextIdx-1]
	if nextIdx == len(s.frames) {
		return prev.Value
	}
	next := s.frames[nextIdx]
	if prev.Easing == easing.Step {
		return prev.Value
	}
	span := next.Time - prev.ActualStartTime
	var u float64
	if span > 0 {
		u = (t - prev.ActualStartTime) / span
	}
	return s.lerp(prev.Value, next.Value, easing.Ease(prev.Easing, u))
}
