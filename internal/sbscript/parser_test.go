package sbscript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) (*ScriptFile, []ParseWarning) {
	t.Helper()
	sf, warnings, err := Parse(strings.NewReader(src), DefaultConfig())
	require.NoError(t, err)
	return sf, warnings
}

func TestParseSpriteAndFade(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,"sb/star.png",320,240`+"\n"+
		` F,0,1000,2000,0,1`+"\n")
	require.Empty(t, warnings)
	require.Len(t, sf.Sprites, 1)
	sp := sf.Sprites[0]
	require.Equal(t, "sb/star.png", sp.Filepath)
	require.Equal(t, Foreground, sp.Layer)
	require.Equal(t, Centre, sp.Origin)
	require.Equal(t, 320.0, sp.InitialX)
	require.Equal(t, 240.0, sp.InitialY)
	require.Len(t, sp.Events, 1)
	require.Equal(t, KindFade, sp.Events[0].Kind)
	require.Equal(t, 1000.0, sp.Events[0].StartTime)
	require.Equal(t, 2000.0, sp.Events[0].EndTime)
}

func TestParseEndTimeDefaultsToStart(t *testing.T) {
	sf, _ := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		` S,0,1000,,2,2`+"\n")
	require.Equal(t, 1000.0, sf.Sprites[0].Events[0].EndTime)
}

func TestParseLoopAttachesNestedEvents(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		` L,0,3`+"\n"+
		`  F,0,0,100,0,1`+"\n")
	require.Empty(t, warnings)
	require.Len(t, sf.Sprites[0].Loops, 1)
	require.Len(t, sf.Sprites[0].Loops[0].Events, 1)
	require.Empty(t, sf.Sprites[0].Events)
}

func TestParseLoopClosesAtShallowerDepth(t *testing.T) {
	sf, _ := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		` L,0,3`+"\n"+
		`  F,0,0,100,0,1`+"\n"+
		` F,0,100,200,1,0`+"\n")
	require.Len(t, sf.Sprites[0].Loops[0].Events, 1)
	require.Len(t, sf.Sprites[0].Events, 1)
}

func TestParseNestedLoopInsideLoopIsSkippedNotFatal(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		` L,0,3`+"\n"+
		`  L,0,2`+"\n"+
		`  F,0,0,100,0,1`+"\n")
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "nesting violation")
	// The outer loop stays open and gets the event the inner L tried to open.
	require.Len(t, sf.Sprites[0].Loops, 1)
	require.Len(t, sf.Sprites[0].Loops[0].Events, 1)
}

func TestParseVariablesSubstitute(t *testing.T) {
	sf, _ := mustParse(t, "[Variables]\n"+
		"$X=320\n"+
		"[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		` M,0,0,1000,$X,240,$X,480`+"\n")
	ev := sf.Sprites[0].Events[0]
	require.Equal(t, 320.0, ev.StartValue)
	require.Equal(t, 320.0, ev.EndValue)
}

func TestParseMalformedLineSkippedWithWarning(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		` F,notanumber,1000,2000,0,1`+"\n")
	require.Empty(t, sf.Sprites[0].Events)
	require.Len(t, warnings, 1)
}

func TestParseUnresolvedLayerDefaultsToForeground(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		`Sprite,Nope,Centre,star.png,0,0`+"\n")
	require.Len(t, warnings, 1)
	require.Equal(t, Foreground, sf.Sprites[0].Layer)
}

func TestParseSampleDefaultVolume(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		`Sample,1000,0,hit.wav`+"\n")
	require.Empty(t, warnings)
	require.Len(t, sf.Samples, 1)
	require.Equal(t, 100, sf.Samples[0].Volume)
}

func TestParseAnimationClampsNegativeFrameFields(t *testing.T) {
	sf, _ := mustParse(t, "[Events]\n"+
		`Animation,Foreground,Centre,star.png,0,0,-5,-10,LoopForever`+"\n")
	sp := sf.Sprites[0]
	require.True(t, sp.IsAnimation)
	require.Equal(t, 1, sp.FrameCount)
	require.Equal(t, 0.0, sp.FrameDelay)
}

func TestParseUnknownHeadingResetsSection(t *testing.T) {
	sf, _ := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n"+
		"[SomethingElse]\n"+
		` F,0,1000,2000,0,1`+"\n")
	require.Empty(t, sf.Sprites[0].Events)
}

func TestParseCommentsAndBlankLinesIgnored(t *testing.T) {
	sf, warnings := mustParse(t, "[Events]\n"+
		"// a comment\n"+
		"\n"+
		`Sprite,Foreground,Centre,star.png,0,0`+"\n")
	require.Empty(t, warnings)
	require.Len(t, sf.Sprites, 1)
}

func TestParseGeneralAndMetadataAreSeparateMaps(t *testing.T) {
	sf, _ := mustParse(t, "[General]\n"+
		"WidescreenStoryboard: 1\n"+
		"[Metadata]\n"+
		"Title:My Song\n")
	require.Equal(t, "1", sf.General["WidescreenStoryboard"])
	require.Equal(t, "My Song", sf.Metadata["Title"])
	_, ok := sf.Metadata["WidescreenStoryboard"]
	require.False(t, ok)
}

func TestParseQuotedPathStripped(t *testing.T) {
	sf, _ := mustParse(t, "[Events]\n"+
		`Sprite,Foreground,Centre,"sb/a b.png",0,0`+"\n")
	require.Equal(t, "sb/a b.png", sf.Sprites[0].Filepath)
}
