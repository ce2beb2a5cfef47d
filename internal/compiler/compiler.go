// Package compiler lowers a sprite's sorted event stream into the eight
// per-property keyframe.Sequence channels a sprite samples from. This is
// the keyframe compiler: the core of the whole system.
package compiler

import (
	"math"

	"github.com/corvid-games/osb-go/internal/easing"
	"github.com/corvid-games/osb-go/internal/interp"
	"github.com/corvid-games/osb-go/internal/keyframe"
	"github.com/corvid-games/osb-go/internal/sbscript"
)

// Channels holds a sprite's fully compiled, post-initialise() timelines.
type Channels struct {
	PositionX *keyframe.Sequence[float64]
	PositionY *keyframe.Sequence[float64]
	Rotation  *keyframe.Sequence[float64]
	ScaleX    *keyframe.Sequence[float64]
	ScaleY    *keyframe.Sequence[float64]
	Color     *keyframe.Sequence[interp.Color]
	Opacity   *keyframe.Sequence[float64]
	FlipH     *keyframe.Sequence[bool]
	FlipV     *keyframe.Sequence[bool]
	Additive  *keyframe.Sequence[bool]
}

// Compile runs the keyframe compiler over a sprite's already-loop-expanded,
// already-sorted-by-start_time event stream, producing every channel.
// initialX/initialY seed the Position default when no M/MX/MY event exists.
func Compile(events []sbscript.Event, initialX, initialY float64) Channels {
	posX, posY := compilePosition(events, initialX, initialY)
	scaleX, scaleY := compileScale(events)
	return Channels{
		PositionX: posX,
		PositionY: posY,
		Rotation:  compileScalar(filterKind(events, sbscript.KindRotate), 0),
		ScaleX:    scaleX,
		ScaleY:    scaleY,
		Color:     compileColor(filterKind(events, sbscript.KindColor)),
		Opacity:   compileScalar(filterKind(events, sbscript.KindFade), 1),
		FlipH:     compileParameter(filterParam(events, sbscript.FlipH)),
		FlipV:     compileParameter(filterParam(events, sbscript.FlipV)),
		Additive:  compileParameter(filterParam(events, sbscript.Additive)),
	}
}

func filterKind(events []sbscript.Event, kind sbscript.EventKind) []sbscript.Event {
	var out []sbscript.Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func filterParam(events []sbscript.Event, p sbscript.ParameterType) []sbscript.Event {
	var out []sbscript.Event
	for _, e := range events {
		if e.Kind == sbscript.KindParameter && e.Param == p {
			out = append(out, e)
		}
	}
	return out
}

// compilePosition implements the §4.E Position/Scale dual-axis
// compatibility rule: the first applicable event's kind decides, once,
// whether the channel runs in compound (M) or separate (MX/MY) mode.
func compilePosition(events []sbscript.Event, initialX, initialY float64) (x, y *keyframe.Sequence[float64]) {
	var applicable []sbscript.Event
	for _, e := range events {
		if e.Kind == sbscript.KindMove || e.Kind == sbscript.KindMoveX || e.Kind == sbscript.KindMoveY {
			applicable = append(applicable, e)
		}
	}
	if len(applicable) == 0 {
		return keyframe.Default(initialX, interp.Lerp), keyframe.Default(initialY, interp.Lerp)
	}
	var rawX, rawY []rawEvent[float64]
	if applicable[0].Kind == sbscript.KindMove {
		for _, e := range applicable {
			if e.Kind != sbscript.KindMove {
				continue
			}
			rawX = append(rawX, toRaw(e, e.StartValue, e.EndValue))
			rawY = append(rawY, toRaw(e, e.StartValue2, e.EndValue2))
		}
	} else {
		for _, e := range applicable {
			switch e.Kind {
			case sbscript.KindMoveX:
				rawX = append(rawX, toRaw(e, e.StartValue, e.EndValue))
			case sbscript.KindMoveY:
				rawY = append(rawY, toRaw(e, e.StartValue, e.EndValue))
			}
		}
	}
	return lower(rawX, initialX, interp.Lerp), lower(rawY, initialY, interp.Lerp)
}

// compileScale mirrors compilePosition with V (pair) as the compound kind
// and S (scalar, broadcast to both axes) as the separate kind.
func compileScale(events []sbscript.Event) (x, y *keyframe.Sequence[float64]) {
	var applicable []sbscript.Event
	for _, e := range events {
		if e.Kind == sbscript.KindVectorScale || e.Kind == sbscript.KindScale {
			applicable = append(applicable, e)
		}
	}
	if len(applicable) == 0 {
		return keyframe.Default(1, interp.Lerp), keyframe.Default(1, interp.Lerp)
	}
	var rawX, rawY []rawEvent[float64]
	if applicable[0].Kind == sbscript.KindVectorScale {
		for _, e := range applicable {
			if e.Kind != sbscript.KindVectorScale {
				continue
			}
			rawX = append(rawX, toRaw(e, e.StartValue, e.EndValue))
			rawY = append(rawY, toRaw(e, e.StartValue2, e.EndValue2))
		}
	} else {
		for _, e := range applicable {
			if e.Kind != sbscript.KindScale {
				continue
			}
			rawX = append(rawX, toRaw(e, e.StartValue, e.EndValue))
			rawY = append(rawY, toRaw(e, e.StartValue, e.EndValue))
		}
	}
	return lower(rawX, 1, interp.Lerp), lower(rawY, 1, interp.Lerp)
}

func compileScalar(events []sbscript.Event, defaultValue float64) *keyframe.Sequence[float64] {
	raw := make([]rawEvent[float64], 0, len(events))
	for _, e := range events {
		raw = append(raw, toRaw(e, e.StartValue, e.EndValue))
	}
	return lower(raw, defaultValue, interp.Lerp)
}

func compileColor(events []sbscript.Event) *keyframe.Sequence[interp.Color] {
	raw := make([]rawEvent[interp.Color], 0, len(events))
	for _, e := range events {
		start := interp.Color{R: e.StartColor[0], G: e.StartColor[1], B: e.StartColor[2]}
		end := interp.Color{R: e.EndColor[0], G: e.EndColor[1], B: e.EndColor[2]}
		raw = append(raw, toRaw(e, start, end))
	}
	return lower(raw, interp.Color{R: 1, G: 1, B: 1}, interp.LerpColor)
}

func compileParameter(events []sbscript.Event) *keyframe.Sequence[bool] {
	if len(events) == 0 {
		return keyframe.Default(false, interp.LerpBool)
	}
	frames := make([]keyframe.Keyframe[bool], 0, len(events)*2+1)
	for idx, e := range events {
		if idx == 0 {
			frames = append(frames, keyframe.Keyframe[bool]{
				Time: math.Inf(-1), Value: true, Easing: easing.Step, ActualStartTime: math.Inf(-1),
			})
			frames = append(frames, keyframe.Keyframe[bool]{
				Time: e.StartTime, Value: true, Easing: easing.Step, ActualStartTime: e.StartTime,
			})
		} else {
			prev := frames[len(frames)-1]
			if prev.Time >= e.StartTime {
				frames[len(frames)-1] = keyframe.Keyframe[bool]{
					Time: prev.Time, Value: true, Easing: easing.Step, ActualStartTime: e.StartTime,
				}
			} else {
				frames = append(frames, keyframe.Keyframe[bool]{
					Time: e.StartTime, Value: true, Easing: easing.Step, ActualStartTime: e.StartTime,
				})
			}
		}
		frames = append(frames, keyframe.Keyframe[bool]{
			Time: e.EndTime, Value: false, Easing: easing.Step, ActualStartTime: e.EndTime,
		})
	}
	return keyframe.NewSequence(frames, interp.LerpBool)
}

// rawEvent is a value-typed projection of an sbscript.Event: one scalar
// pair of start/end values of type T, stripped of the kind/Param fields
// lower doesn't need.
type rawEvent[T any] struct {
	StartTime, EndTime   float64
	StartValue, EndValue T
	Easing               easing.Easing
}

func toRaw[T any](e sbscript.Event, start, end T) rawEvent[T] {
	return rawEvent[T]{StartTime: e.StartTime, EndTime: e.EndTime, StartValue: start, EndValue: end, Easing: e.Easing}
}

// lower is the §4.E core lowering algorithm, generic over the channel's
// value type. Events must already be sorted by start_time.
//
// The sentinel before the first event carries the event's own start
// value when that event has a span (it was already at that value before
// the ease began), or the channel's type default when the first event is
// instantaneous (a "set" establishes nothing about what came before it).
//
// Overlap: when processing event N finds the previously emitted keyframe
// past event N's start time, that keyframe is replaced in place (not
// appended after) so emitted time stays non-decreasing: the earlier
// event is visually truncated at the later event's start, while the
// later event's easing still normalizes against its own actual start.
// A keyframe exactly at event N's start is kept, and event N's start
// keyframe is appended after it at the same time.
func lower[T any](events []rawEvent[T], defaultValue T, lerp keyframe.LerpFunc[T]) *keyframe.Sequence[T] {
	if len(events) == 0 {
		return keyframe.Default(defaultValue, lerp)
	}
	frames := make([]keyframe.Keyframe[T], 0, len(events)*2+1)
	for idx, ev := range events {
		hasSpan := ev.HasSpan()
		startValue := ev.EndValue
		startEasing := easing.Step
		if hasSpan {
			startValue = ev.StartValue
			startEasing = ev.Easing
		}
		if idx == 0 {
			sentinelValue := defaultValue
			if hasSpan {
				sentinelValue = ev.StartValue
			}
			frames = append(frames, keyframe.Keyframe[T]{
				Time: math.Inf(-1), Value: sentinelValue, Easing: easing.Step, ActualStartTime: math.Inf(-1),
			})
			frames = append(frames, keyframe.Keyframe[T]{
				Time: ev.StartTime, Value: startValue, Easing: startEasing, ActualStartTime: ev.StartTime,
			})
		} else {
			prev := frames[len(frames)-1]
			if prev.Time > ev.StartTime {
				frames[len(frames)-1] = keyframe.Keyframe[T]{
					Time: prev.Time, Value: startValue, Easing: startEasing, ActualStartTime: ev.StartTime,
				}
			} else {
				frames = append(frames, keyframe.Keyframe[T]{
					Time: ev.StartTime, Value: startValue, Easing: startEasing, ActualStartTime: ev.StartTime,
				})
			}
		}
		if hasSpan {
			frames = append(frames, keyframe.Keyframe[T]{
				Time: ev.EndTime, Value: ev.EndValue, Easing: easing.Step, ActualStartTime: ev.EndTime,
			})
		}
	}
	return keyframe.NewSequence(frames, lerp)
}

// HasSpan mirrors sbscript.Event.HasSpan for the value-stripped projection.
func (e rawEvent[T]) HasSpan() bool { return e.EndTime > e.StartTime }
