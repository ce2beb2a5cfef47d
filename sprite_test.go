package osb

import (
	"testing"

	"github.com/corvid-games/osb-go/internal/easing"
	"github.com/corvid-games/osb-go/internal/sbscript"
	"github.com/stretchr/testify/require"
)

func fadeEvent(start, end, v0, v1 float64) sbscript.Event {
	return sbscript.Event{
		Kind: sbscript.KindFade, Easing: easing.FromIndex(0),
		StartTime: start, EndTime: end, StartValue: v0, EndValue: v1,
	}
}

func moveEvent(start, end, x0, y0, x1, y1 float64) sbscript.Event {
	return sbscript.Event{
		Kind: sbscript.KindMove, Easing: easing.FromIndex(0),
		StartTime: start, EndTime: end,
		StartValue: x0, StartValue2: y0, EndValue: x1, EndValue2: y1,
	}
}

func TestSpriteInitialiseIsIdempotent(t *testing.T) {
	sp := NewSprite(&sbscript.SpriteDef{
		Filepath: "a.png", InitialX: 10, InitialY: 20,
		Events: []sbscript.Event{fadeEvent(0, 1000, 0, 1)},
	})
	sp.Initialise()
	first := sp.OpacityAt(500)
	sp.Initialise()
	require.Equal(t, first, sp.OpacityAt(500))
}

func TestSpriteActiveIntervalSpansAllEvents(t *testing.T) {
	sp := NewSprite(&sbscript.SpriteDef{
		Filepath: "a.png",
		Events: []sbscript.Event{
			fadeEvent(1000, 2000, 0, 1),
			moveEvent(500, 1500, 0, 0, 100, 100),
		},
	})
	sp.Initialise()
	iv := sp.ActiveInterval()
	require.Equal(t, 500.0, iv.Start)
	require.Equal(t, 2000.0, iv.End)
	require.True(t, iv.Contains(1999))
	require.False(t, iv.Contains(2000))
}

func TestSpriteDefaultsWithNoEvents(t *testing.T) {
	sp := NewSprite(&sbscript.SpriteDef{Filepath: "a.png", InitialX: 5, InitialY: 7})
	sp.Initialise()
	x, y := sp.PositionAt(0)
	require.Equal(t, 5.0, x)
	require.Equal(t, 7.0, y)
	sx, sy := sp.ScaleAt(0)
	require.Equal(t, 1.0, sx)
	require.Equal(t, 1.0, sy)
	require.Equal(t, 1.0, sp.OpacityAt(0))
	require.False(t, sp.EffectAt(0, sbscript.Additive))
}

func TestSpriteLoopExpansionShiftsEventsAndExtendsActiveInterval(t *testing.T) {
	loop := &sbscript.Loop{
		StartTime: 1000, LoopCount: 3,
		Events: []sbscript.Event{fadeEvent(0, 100, 0, 1)},
	}
	sp := NewSprite(&sbscript.SpriteDef{
		Filepath: "a.png",
		Loops:    []*sbscript.Loop{loop},
	})
	sp.Initialise()
	iv := sp.ActiveInterval()
	require.Equal(t, 1000.0, iv.Start)
	require.Equal(t, 1300.0, iv.End) // 3 repetitions * 100ms loop length
	require.InDelta(t, 0.5, sp.OpacityAt(1050), 1e-9)
	require.InDelta(t, 0.5, sp.OpacityAt(1250), 1e-9)
}

func TestSpriteLoopCountClampedToAtLeastOne(t *testing.T) {
	loop := &sbscript.Loop{
		StartTime: 0, LoopCount: 0,
		Events: []sbscript.Event{fadeEvent(0, 100, 0, 1)},
	}
	sp := NewSprite(&sbscript.SpriteDef{Filepath: "a.png", Loops: []*sbscript.Loop{loop}})
	sp.Initialise()
	require.Equal(t, 100.0, sp.ActiveInterval().End)
}

func TestSpriteTriggersAreStoredNotLowered(t *testing.T) {
	trig := &sbscript.Trigger{Name: "Passing", StartTime: 0, EndTime: 1000}
	sp := NewSprite(&sbscript.SpriteDef{Filepath: "a.png", Triggers: []*sbscript.Trigger{trig}})
	sp.Initialise()
	require.Len(t, sp.Triggers(), 1)
	require.Equal(t, "Passing", sp.Triggers()[0].Name)
	// A trigger contributes nothing to the active interval or any channel.
	require.Equal(t, Interval{}, sp.ActiveInterval())
}

func TestSpriteEventsMergeWithExpandedLoopsInStartTimeOrder(t *testing.T) {
	loop := &sbscript.Loop{
		StartTime: 0, LoopCount: 1,
		Events: []sbscript.Event{fadeEvent(0, 100, 0, 1)},
	}
	sp := NewSprite(&sbscript.SpriteDef{
		Filepath: "a.png",
		Events:   []sbscript.Event{fadeEvent(200, 300, 1, 0)},
		Loops:    []*sbscript.Loop{loop},
	})
	sp.Initialise()
	require.Equal(t, 0.0, sp.ActiveInterval().Start)
	require.Equal(t, 300.0, sp.ActiveInterval().End)
}
