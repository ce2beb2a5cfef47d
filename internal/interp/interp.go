// Package interp provides componentwise linear blending for the value
// types the keyframe compiler interpolates: scalars, 2D pairs (position,
// vector scale) and RGB colors.
package interp

// Pair is a 2-component vector, used for position and non-uniform scale.
type Pair struct {
	X, Y float64
}

// Color is a normalized (0..1 per channel) RGB triple.
type Color struct {
	R, G, B float64
}

// Lerp blends two scalars: a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpPair blends two pairs componentwise.
func LerpPair(a, b Pair, t float64) Pair {
	return Pair{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// LerpColor blends two colors componentwise.
func LerpColor(a, b Color, t float64) Color {
	return Color{R: Lerp(a.R, b.R, t), G: Lerp(a.G, b.G, t), B: Lerp(a.B, b.B, t)}
}

// LerpBool is the non-interpolated blend used by parameter channels: it
// never actually blends, since every parameter keyframe uses Step easing,
// but the compiler still needs a uniform Lerp signature per value type.
func LerpBool(a, b bool, t float64) bool {
	if t >= 1 {
		return b
	}
	return a
}
