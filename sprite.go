// Package osb compiles a storyboard script into per-sprite keyframe
// timelines and samples every sprite's visual state at an arbitrary
// timestamp, for a renderer to composite into video frames.
package osb

import (
	"math"

	"github.com/corvid-games/osb-go/internal/compiler"
	"github.com/corvid-games/osb-go/internal/interp"
	"github.com/corvid-games/osb-go/internal/sbscript"
)

// Interval is a half-open time window [Start, End).
type Interval struct {
	Start, End float64
}

// Contains reports whether t falls within the interval, treating an
// empty (zero-width, never-initialised) interval as never containing
// anything.
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t < iv.End
}

// Sprite is one storyboard-controlled image: immutable identity plus,
// once Initialise has run, eight compiled keyframe channels and an
// active interval. Sampling methods are pure and side-effect free.
type Sprite struct {
	Layer    sbscript.Layer
	Origin   sbscript.Origin
	Filepath string
	InitialX float64
	InitialY float64

	events   []sbscript.Event
	loops    []*sbscript.Loop
	triggers []*sbscript.Trigger

	channels       compiler.Channels
	activeInterval Interval
	initialised    bool
}

// NewSprite builds a sprite from its parsed definition. Initialise must
// be called before any sampling method is used.
func NewSprite(def *sbscript.SpriteDef) *Sprite {
	return &Sprite{
		Layer:    def.Layer,
		Origin:   def.Origin,
		Filepath: def.Filepath,
		InitialX: def.InitialX,
		InitialY: def.InitialY,
		events:   def.Events,
		loops:    def.Loops,
		triggers: def.Triggers,
	}
}

// Triggers exposes the sprite's stored, never-lowered trigger groups for
// a higher layer to evaluate against gameplay events (§9).
func (s *Sprite) Triggers() []*sbscript.Trigger {
	return s.triggers
}

// ActiveInterval is the half-open window during which the sprite may be
// visible: from the earliest event start to the latest event end (gaps
// between events included), computed in Initialise.
func (s *Sprite) ActiveInterval() Interval {
	return s.activeInterval
}

// Initialise is idempotent: loop expansion, trigger init (a no-op),
// merging expanded events into the sprite's event list, a stable sort by
// start_time, the active-interval computation, then the keyframe
// compiler for each of the eight channels.
func (s *Sprite) Initialise() {
	if s.initialised {
		return
	}
	s.initialised = true

	all := make([]sbscript.Event, 0, len(s.events))
	all = append(all, s.events...)
	for _, loop := range s.loops {
		all = append(all, expandLoop(loop)...)
	}
	// Triggers are stored but never lowered into keyframes; see Triggers().

	stableSortByStartTime(all)
	s.activeInterval = computeActiveInterval(all)
	s.channels = compiler.Compile(all, s.InitialX, s.InitialY)
}

// expandLoop implements §4.D Loop.initialise(): clamp loop_count to at
// least 1, derive loop_length from the last event's end_time (events are
// in insertion order), then emit loop_count shifted copies.
func expandLoop(loop *sbscript.Loop) []sbscript.Event {
	count := loop.LoopCount
	if count < 1 {
		count = 1
	}
	if len(loop.Events) == 0 {
		return nil
	}
	loopLength := loop.Events[len(loop.Events)-1].EndTime
	expanded := make([]sbscript.Event, 0, count*len(loop.Events))
	for k := 0; k < count; k++ {
		shift := loop.StartTime + float64(k)*loopLength
		for _, ev := range loop.Events {
			copied := ev.Copy()
			copied.StartTime += shift
			copied.EndTime += shift
			expanded = append(expanded, copied)
		}
	}
	return expanded
}

// stableSortByStartTime is a small insertion sort: sprite event counts
// are tiny (dozens, rarely hundreds) and the property matters more than
// asymptotics here.
func stableSortByStartTime(events []sbscript.Event) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].StartTime < events[j-1].StartTime; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}

func computeActiveInterval(events []sbscript.Event) Interval {
	if len(events) == 0 {
		return Interval{}
	}
	minStart := math.Inf(1)
	maxEnd := math.Inf(-1)
	for _, ev := range events {
		if ev.StartTime < minStart {
			minStart = ev.StartTime
		}
		if ev.EndTime > maxEnd {
			maxEnd = ev.EndTime
		}
	}
	return Interval{Start: minStart, End: maxEnd}
}

// PositionAt returns the sprite's (x, y) at time t.
func (s *Sprite) PositionAt(t float64) (float64, float64) {
	return s.channels.PositionX.Sample(t), s.channels.PositionY.Sample(t)
}

// RotationAt returns the sprite's rotation in radians at time t.
func (s *Sprite) RotationAt(t float64) float64 {
	return s.channels.Rotation.Sample(t)
}

// ScaleAt returns the sprite's (scaleX, scaleY) at time t.
func (s *Sprite) ScaleAt(t float64) (float64, float64) {
	return s.channels.ScaleX.Sample(t), s.channels.ScaleY.Sample(t)
}

// ColorAt returns the sprite's tint color at time t.
func (s *Sprite) ColorAt(t float64) interp.Color {
	return s.channels.Color.Sample(t)
}

// OpacityAt returns the sprite's opacity at time t.
func (s *Sprite) OpacityAt(t float64) float64 {
	return s.channels.Opacity.Sample(t)
}

// EffectAt returns whether the named boolean parameter effect is active
// at time t.
func (s *Sprite) EffectAt(t float64, p sbscript.ParameterType) bool {
	switch p {
	case sbscript.FlipH:
		return s.channels.FlipH.Sample(t)
	case sbscript.FlipV:
		return s.channels.FlipV.Sample(t)
	case sbscript.Additive:
		return s.channels.Additive.Sample(t)
	default:
		return false
	}
}
