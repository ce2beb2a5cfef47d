// Package sbscript holds the data model and text parser for a storyboard
// script: sprites, samples, events, loops and triggers as parsed straight
// off the wire, before the keyframe compiler ever sees them.
package sbscript

import "github.com/corvid-games/osb-go/internal/easing"

// Layer is the compositing layer a sprite or sample belongs to.
type Layer int

const (
	Background Layer = iota
	Fail
	Pass
	Foreground
	Overlay
)

// Origin is the anchor point within a sprite's image used for positioning
// and rotation.
type Origin int

const (
	TopLeft Origin = iota
	TopCentre
	TopRight
	CentreLeft
	Centre
	CentreRight
	BottomLeft
	BottomCentre
	BottomRight
)

// LoopType selects how an Animation advances through its frames.
type LoopType int

const (
	LoopForever LoopType = iota
	LoopOnce
	LoopCustom
)

// ParameterType is the boolean effect a Parameter event toggles.
type ParameterType int

const (
	Additive ParameterType = iota
	FlipH
	FlipV
)

// EventKind tags the property an Event drives.
type EventKind int

const (
	KindFade EventKind = iota
	KindScale
	KindVectorScale
	KindRotate
	KindMove
	KindMoveX
	KindMoveY
	KindColor
	KindParameter
)

// Event is one timed command on one property. Which value fields are used
// depends on Kind: StartValue/EndValue hold a scalar for F/S/R/MX/MY and
// the X component for M/V (Y in StartValue2/EndValue2), StartColor/
// EndColor hold the RGB triple for C, and Param holds the ParameterType
// for P. Loop expansion shifts times on copies (see Copy); a parsed Event
// is never modified.
type Event struct {
	Kind      EventKind
	Easing    easing.Easing
	StartTime float64
	EndTime   float64

	StartValue   float64
	EndValue     float64
	StartValue2  float64 // Y component for M/V, unused otherwise
	EndValue2    float64
	StartColor   [3]float64
	EndColor     [3]float64
	Param        ParameterType
}

// HasSpan reports whether the event has nonzero duration. A zero-duration
// event ("set") carries only its end value under Step easing.
func (e Event) HasSpan() bool {
	return e.EndTime > e.StartTime
}

// Copy returns a value copy of e, safe to mutate independently (loop
// expansion shifts times on copies, never on the original).
func (e Event) Copy() Event {
	return e
}

// Loop is a container of events repeated loop_count times starting at
// start_time, each repetition length loop_length apart.
type Loop struct {
	StartTime float64
	LoopCount int
	Events    []Event
}

// Trigger is a named, gameplay-conditional group of events. Stored
// verbatim; its activation predicate is outside the compiler's scope.
type Trigger struct {
	Name      string
	StartTime float64
	EndTime   float64
	Group     int
	Events    []Event
}

// Sample is an audio cue, opaque to the keyframe compiler.
type Sample struct {
	Time     float64
	Layer    Layer
	Filepath string
	Volume   int
}

// SpriteDef is a parsed, not-yet-compiled sprite: its identity plus the
// raw events, loops and triggers attached to it.
type SpriteDef struct {
	Layer       Layer
	Origin      Origin
	Filepath    string
	InitialX    float64
	InitialY    float64
	IsAnimation bool
	FrameCount  int
	FrameDelay  float64
	LoopType    LoopType

	Events   []Event
	Loops    []*Loop
	Triggers []*Trigger
}

// ScriptFile is the fully parsed, not-yet-compiled contents of a
// storyboard script: general/metadata key-value pairs, sprites and
// samples, in declaration order.
type ScriptFile struct {
	General  map[string]string
	Metadata map[string]string
	Sprites  []*SpriteDef
	Samples  []Sample
}

func NewScriptFile() *ScriptFile {
	return &ScriptFile{
		General:  make(map[string]string),
		Metadata: make(map[string]string),
	}
}
