package osb

import (
	"math"
	"strconv"
	"strings"

	"github.com/corvid-games/osb-go/internal/sbscript"
)

// Animation is a Sprite that cycles through frame_count indexed image
// files every frame_delay milliseconds instead of drawing one fixed
// file.
type Animation struct {
	*Sprite
	FrameCount int
	FrameDelay float64
	LoopType   sbscript.LoopType
}

// NewAnimation builds an animation from its parsed definition.
// Initialise must be called (via the embedded Sprite) before sampling.
func NewAnimation(def *sbscript.SpriteDef) *Animation {
	return &Animation{
		Sprite:     NewSprite(def),
		FrameCount: def.FrameCount,
		FrameDelay: def.FrameDelay,
		LoopType:   def.LoopType,
	}
}

// FrameIndexAt resolves which of the frame_count indexed images is
// current at time t. While still inside the nominal cycle length (or
// when looping forever), the index wraps modulo frame_count; once a
// non-forever animation runs past its last cycle it holds on the final
// frame.
func (a *Animation) FrameIndexAt(t float64) int {
	if a.FrameCount <= 0 || a.FrameDelay <= 0 {
		return 0
	}
	elapsed := t - a.ActiveInterval().Start
	cycleLength := float64(a.FrameCount) * a.FrameDelay
	if elapsed < cycleLength || a.LoopType == sbscript.LoopForever {
		return int(math.Mod(elapsed/a.FrameDelay, float64(a.FrameCount)))
	}
	return a.FrameCount - 1
}

// FilePathAt substitutes the resolved frame index into the base
// filepath immediately before its extension, e.g. "sb/fire.png" with
// index 3 becomes "sb/fire3.png".
func (a *Animation) FilePathAt(t float64) string {
	return framePath(a.Filepath, a.FrameIndexAt(t))
}

// FilePaths enumerates every frame's path, for a caller that wants to
// preload all of an animation's images up front.
func (a *Animation) FilePaths() []string {
	paths := make([]string, a.FrameCount)
	for i := 0; i < a.FrameCount; i++ {
		paths[i] = framePath(a.Filepath, i)
	}
	return paths
}

func framePath(path string, index int) string {
	dot := strings.LastIndex(path, ".")
	if dot < 0 {
		return path + strconv.Itoa(index)
	}
	return path[:dot] + strconv.Itoa(index) + path[dot:]
}
