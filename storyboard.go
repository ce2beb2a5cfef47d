package osb

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"strconv"
	"strings"

	"github.com/corvid-games/osb-go/internal/imagecache"
	"github.com/corvid-games/osb-go/internal/interp"
	"github.com/corvid-games/osb-go/internal/sbscript"
)

// Resolution is the target output size, in pixels. The storyboard's
// virtual coordinate space is always 854 units wide.
type Resolution struct {
	Width, Height int
}

const virtualWidth = 854.0

// DrawCommand is one sprite's fully resolved visual state at a sampled
// time, ready for an external renderer to composite.
type DrawCommand struct {
	Image    image.Image
	Center   [2]float64
	Size     [2]float64
	Rotation float64
	Color    interp.Color
	Opacity  float64
	Additive bool
	FlipH    bool
	FlipV    bool
}

type StoryboardOption func(*storyboardConfig)

type storyboardConfig struct {
	fsys     fs.FS
	decoders map[string]imagecache.Decoder
}

func defaultStoryboardConfig() storyboardConfig {
	return storyboardConfig{decoders: make(map[string]imagecache.Decoder)}
}

// WithFS supplies the filesystem sprite image paths are resolved
// against. Without one, the image cache is never built: it stays empty
// and every lookup is a miss.
func WithFS(fsys fs.FS) StoryboardOption {
	return func(cfg *storyboardConfig) {
		cfg.fsys = fsys
	}
}

// WithDecoder registers a decoder for a file extension (".png", ".webp",
// ...), matched case-insensitively including the leading dot.
func WithDecoder(ext string, dec imagecache.Decoder) StoryboardOption {
	return func(cfg *storyboardConfig) {
		cfg.decoders[ext] = dec
	}
}

// Storyboard owns a parsed script's sprites and samples, compiled and
// ready to sample at any timestamp.
type Storyboard struct {
	sprites    []*Sprite
	animations []*Animation
	samples    []sbscript.Sample
	resolution Resolution
	frameScale float64
	images     *imagecache.Cache
	activeSpan Interval

	// WidescreenStoryboard and BackgroundColour come straight off
	// [General]; nothing in this package samples them, but downstream
	// composition wants them available alongside the sprite draw
	// commands.
	WidescreenStoryboard bool
	BackgroundColour     interp.Color
}

// NewStoryboard builds a storyboard from a parsed script and a target
// resolution: every sprite is Initialise'd (trivially parallelizable
// per §5, but sequential here since compilation is cheap), frame_scale
// is precomputed, and the image cache is built from every distinct
// filepath the sprites reference.
func NewStoryboard(script *sbscript.ScriptFile, resolution Resolution, opts ...StoryboardOption) (*Storyboard, error) {
	if resolution.Width <= 0 || resolution.Height <= 0 {
		return nil, errors.New("resolution must be positive")
	}
	cfg := defaultStoryboardConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sb := &Storyboard{
		samples:              script.Samples,
		resolution:           resolution,
		frameScale:           float64(resolution.Width) / virtualWidth,
		images:               imagecache.New(),
		WidescreenStoryboard: script.General["WidescreenStoryboard"] == "1",
		BackgroundColour:     parseBackgroundColour(script.General["BackgroundColour"]),
	}

	paths := make(map[string]struct{})
	for _, def := range script.Sprites {
		if def.IsAnimation {
			anim := NewAnimation(def)
			anim.Initialise()
			sb.animations = append(sb.animations, anim)
			sb.sprites = append(sb.sprites, anim.Sprite)
			for _, p := range anim.FilePaths() {
				paths[p] = struct{}{}
			}
			continue
		}
		sp := NewSprite(def)
		sp.Initialise()
		sb.sprites = append(sb.sprites, sp)
		paths[sp.Filepath] = struct{}{}
	}

	for ext, dec := range cfg.decoders {
		sb.images.RegisterDecoder(ext, dec)
	}
	if cfg.fsys != nil {
		pathList := make([]string, 0, len(paths))
		for p := range paths {
			pathList = append(pathList, p)
		}
		sb.images.Build(cfg.fsys, pathList)
	}

	sb.activeSpan = sb.computeActiveSpan()
	return sb, nil
}

// parseBackgroundColour reads [General]'s "R,G,B" (each 0-255) into a
// normalized Color, defaulting to black when absent or malformed —
// an unset background colour is just unset, not an error.
func parseBackgroundColour(raw string) interp.Color {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return interp.Color{}
	}
	var c [3]float64
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return interp.Color{}
		}
		c[i] = float64(v) / 255.0
	}
	return interp.Color{R: c[0], G: c[1], B: c[2]}
}

func (sb *Storyboard) computeActiveSpan() Interval {
	var span Interval
	found := false
	for _, sp := range sb.sprites {
		iv := sp.ActiveInterval()
		if iv.End <= iv.Start {
			continue // an empty interval adds nothing to the union
		}
		if !found {
			span, found = iv, true
			continue
		}
		if iv.Start < span.Start {
			span.Start = iv.Start
		}
		if iv.End > span.End {
			span.End = iv.End
		}
	}
	return span
}

// ActiveInterval is the union of every sprite's active interval.
func (sb *Storyboard) ActiveInterval() Interval {
	return sb.activeSpan
}

// Sprites returns every sprite the storyboard owns, including the
// Sprite half of every Animation.
func (sb *Storyboard) Sprites() []*Sprite {
	return sb.sprites
}

// Samples returns the storyboard's audio sample cues, unchanged from
// the parsed script; playing them back is outside this package's scope.
func (sb *Storyboard) Samples() []sbscript.Sample {
	return sb.samples
}

// Images exposes the decoded-bitmap cache, for a renderer that wants to
// report hit/miss counts or inspect images directly.
func (sb *Storyboard) Images() *imagecache.Cache {
	return sb.images
}

func (sb *Storyboard) String() string {
	return fmt.Sprintf("storyboard: %d sprites, %d samples, active %v", len(sb.sprites), len(sb.samples), sb.activeSpan)
}

// filePathAt resolves which file a sprite should draw with at time t,
// accounting for animation frame indexing.
func (sb *Storyboard) filePathAt(sp *Sprite, t float64) string {
	for _, anim := range sb.animations {
		if anim.Sprite == sp {
			return anim.FilePathAt(t)
		}
	}
	return sp.Filepath
}

// DrawFrame samples every sprite at time t and returns the draw commands
// for whichever are visible, in sprite order. A sprite outside its
// active interval, with zero opacity, or with either scale axis zero is
// skipped entirely — it contributes nothing to draw, not even a
// transparent command.
func (sb *Storyboard) DrawFrame(t float64) []DrawCommand {
	commands := make([]DrawCommand, 0, len(sb.sprites))
	for _, sp := range sb.sprites {
		if !sp.ActiveInterval().Contains(t) {
			continue
		}
		opacity := sp.OpacityAt(t)
		if opacity == 0 {
			continue
		}
		sx, sy := sp.ScaleAt(t)
		if sx == 0 || sy == 0 {
			continue
		}
		x, y := sp.PositionAt(t)
		img := sb.images.Get(sb.filePathAt(sp, t))
		w, h := imageDims(img)

		commands = append(commands, DrawCommand{
			Image:    img,
			Center:   [2]float64{x * sb.frameScale, y * sb.frameScale},
			Size:     [2]float64{absf(sx) * w * sb.frameScale, absf(sy) * h * sb.frameScale},
			Rotation: sp.RotationAt(t),
			Color:    sp.ColorAt(t),
			Opacity:  opacity,
			Additive: sp.EffectAt(t, sbscript.Additive),
			FlipH:    sp.EffectAt(t, sbscript.FlipH),
			FlipV:    sp.EffectAt(t, sbscript.FlipV),
		})
	}
	return commands
}

// imageDims reports an image's pixel size, or a 1x1 unit placeholder on
// a cache miss so a missing sprite still gets a nonzero draw size for
// cmd/sbpreview's placeholder rectangle.
func imageDims(img image.Image) (w, h float64) {
	if img == nil {
		return 1, 1
	}
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
