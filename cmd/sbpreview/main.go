// Command sbpreview is an ebiten-based scrubber for a parsed storyboard:
// drag the time slider (or press space to play/pause; there is no
// arrow-key control) and watch sprites fade, move and scale as DrawFrame
// resolves them.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"

	osb "github.com/corvid-games/osb-go"
	"github.com/corvid-games/osb-go/internal/sbscript"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/bmp"
)

const (
	windowW = 960
	windowH = 640

	sliderH  = 56
	statusH  = 28
	pad      = 16
	textCell = 7
)

var (
	bgColor         = color.RGBA{18, 18, 24, 255}
	canvasColor     = color.RGBA{8, 8, 12, 255}
	panelColor      = color.RGBA{48, 48, 56, 255}
	borderColor     = color.RGBA{96, 96, 112, 255}
	trackColor      = color.RGBA{30, 30, 36, 255}
	thumbColor      = color.RGBA{0, 120, 220, 255}
	placeholderFill = color.RGBA{200, 80, 80, 160}
)

type game struct {
	sb   *osb.Storyboard
	t    float64
	span osb.Interval

	playing  bool
	dragging bool

	viewW, viewH int
}

func newGame(sb *osb.Storyboard) *game {
	span := sb.ActiveInterval()
	start := span.Start
	if math.IsInf(start, 0) {
		start = 0
	}
	return &game{sb: sb, t: start, span: span, viewW: windowW, viewH: windowH}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.playing = !g.playing
	}
	if g.playing {
		g.t += 1000.0 / 60.0
		if g.t > g.span.End {
			g.t = g.span.Start
		}
	}

	mx, my := ebiten.CursorPosition()
	track := g.sliderTrack()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && pointInRect(mx, my, g.sliderRect()) {
		g.dragging = true
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging && track.Dx() > 0 {
		frac := clamp(float64(mx-track.Min.X)/float64(track.Dx()), 0, 1)
		g.t = g.span.Start + frac*(g.span.End-g.span.Start)
	}
	return nil
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW, g.viewH = outsideW, outsideH
	return outsideW, outsideH
}

func (g *game) canvasRect() image.Rectangle {
	return image.Rect(pad, pad, g.viewW-pad, g.viewH-pad-sliderH-statusH)
}

func (g *game) sliderRect() image.Rectangle {
	c := g.canvasRect()
	return image.Rect(pad, c.Max.Y+8, g.viewW-pad, c.Max.Y+8+sliderH-16)
}

func (g *game) sliderTrack() image.Rectangle {
	r := g.sliderRect()
	return image.Rect(r.Min.X+8, r.Min.Y+r.Dy()/2-2, r.Max.X-8, r.Min.Y+r.Dy()/2+2)
}

func (g *game) statusRect() image.Rectangle {
	s := g.sliderRect()
	return image.Rect(pad, s.Max.Y+4, g.viewW-pad, g.viewH-pad)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)

	canvas := g.canvasRect()
	ebitenutil.DrawRect(screen, float64(canvas.Min.X), float64(canvas.Min.Y), float64(canvas.Dx()), float64(canvas.Dy()), canvasColor)
	drawBorder(screen, canvas)

	for _, cmd := range g.sb.DrawFrame(g.t) {
		g.drawCommand(screen, canvas, cmd)
	}

	g.drawSlider(screen)
	g.drawStatus(screen)
}

func (g *game) drawCommand(screen *ebiten.Image, canvas image.Rectangle, cmd osb.DrawCommand) {
	cx := canvas.Min.X + int(cmd.Center[0])
	cy := canvas.Min.Y + int(cmd.Center[1])
	w := cmd.Size[0]
	h := cmd.Size[1]
	if w <= 0 || h <= 0 {
		return
	}

	fill := placeholderFill
	if cmd.Image != nil {
		fill = color.RGBA{
			R: uint8(clamp(cmd.Color.R*255, 0, 255)),
			G: uint8(clamp(cmd.Color.G*255, 0, 255)),
			B: uint8(clamp(cmd.Color.B*255, 0, 255)),
			A: uint8(clamp(cmd.Opacity*255, 0, 255)),
		}
	} else {
		fill.A = uint8(clamp(cmd.Opacity*255, 0, 255))
	}

	// Rotation isn't drawn (an axis-aligned rectangle stands in for the
	// sprite's true rotated quad); cmd.Rotation is computed but unused here.
	x := float64(cx) - w/2
	y := float64(cy) - h/2
	ebitenutil.DrawRect(screen, x, y, w, h, fill)
}

func (g *game) drawSlider(screen *ebiten.Image) {
	r := g.sliderRect()
	ebitenutil.DrawRect(screen, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), panelColor)
	drawBorder(screen, r)

	track := g.sliderTrack()
	ebitenutil.DrawRect(screen, float64(track.Min.X), float64(track.Min.Y), float64(track.Dx()), float64(track.Dy()), trackColor)

	span := g.span.End - g.span.Start
	frac := 0.0
	if span > 0 {
		frac = clamp((g.t-g.span.Start)/span, 0, 1)
	}
	thumbX := track.Min.X + int(frac*float64(track.Dx()))
	thumbRect := image.Rect(thumbX-4, r.Min.Y+4, thumbX+4, r.Max.Y-4)
	ebitenutil.DrawRect(screen, float64(thumbRect.Min.X), float64(thumbRect.Min.Y), float64(thumbRect.Dx()), float64(thumbRect.Dy()), thumbColor)
}

func (g *game) drawStatus(screen *ebiten.Image) {
	r := g.statusRect()
	state := "paused"
	if g.playing {
		state = "playing"
	}
	msg := fmt.Sprintf("t=%.0fms  [%s]  space=play/pause  drag slider to scrub", g.t, state)
	ebitenutil.DebugPrintAt(screen, msg, r.Min.X, r.Min.Y)
}

func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y, 1, h, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, borderColor)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func main() {
	var (
		width  = flag.Int("width", 1280, "target render width in pixels")
		height = flag.Int("height", 720, "target render height in pixels")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sbpreview [flags] <script.osb>")
		os.Exit(2)
	}

	script, warnings, err := sbscript.ParseFile(flag.Arg(0), sbscript.DefaultConfig())
	if err != nil {
		log.Fatalf("open %q: %v", flag.Arg(0), err)
	}
	for _, w := range warnings {
		log.Printf("%s", w.String())
	}

	sb, err := osb.NewStoryboard(script, osb.Resolution{Width: *width, Height: *height},
		osb.WithFS(os.DirFS(filepath.Dir(flag.Arg(0)))),
		osb.WithDecoder(".png", png.Decode),
		osb.WithDecoder(".jpg", jpeg.Decode),
		osb.WithDecoder(".jpeg", jpeg.Decode),
		osb.WithDecoder(".bmp", bmp.Decode),
	)
	if err != nil {
		log.Fatalf("build storyboard: %v", err)
	}

	g := newGame(sb)
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("osb-go storyboard preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
