package imagecache

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildDecodesRegisteredExtensions(t *testing.T) {
	fsys := fstest.MapFS{
		"sb/a.png": {Data: encodedPNG(t, 4, 8)},
	}
	c := New()
	c.RegisterDecoder(".png", png.Decode)
	c.Build(fsys, []string{"sb/a.png"})

	img := c.Get("sb/a.png")
	require.NotNil(t, img)
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 8, img.Bounds().Dy())
	require.Equal(t, 1, c.Len())
}

func TestBuildRecordsMissWithoutRegisteredDecoder(t *testing.T) {
	fsys := fstest.MapFS{"sb/a.webp": {Data: []byte("not a real webp")}}
	c := New()
	c.Build(fsys, []string{"sb/a.webp"})
	require.Nil(t, c.Get("sb/a.webp"))
	require.Equal(t, 1, c.Len())
}

func TestBuildRecordsMissOnMissingFile(t *testing.T) {
	fsys := fstest.MapFS{}
	c := New()
	c.RegisterDecoder(".png", png.Decode)
	c.Build(fsys, []string{"nope.png"})
	require.Nil(t, c.Get("nope.png"))
}

func TestBuildRecordsMissOnDecodeFailure(t *testing.T) {
	fsys := fstest.MapFS{"bad.png": {Data: []byte("garbage")}}
	c := New()
	c.RegisterDecoder(".png", png.Decode)
	c.Build(fsys, []string{"bad.png"})
	require.Nil(t, c.Get("bad.png"))
}

func TestDecoderMatchIsCaseInsensitive(t *testing.T) {
	fsys := fstest.MapFS{"sb/A.PNG": {Data: encodedPNG(t, 2, 2)}}
	c := New()
	c.RegisterDecoder(".png", png.Decode)
	c.Build(fsys, []string{"sb/A.PNG"})
	require.NotNil(t, c.Get("sb/A.PNG"))
}

func TestGetUnrequestedPathIsNilNotPanic(t *testing.T) {
	c := New()
	require.Nil(t, c.Get("never/built.png"))
	require.Equal(t, 0, c.Len())
}

func TestStringReportsHitOverTotal(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: encodedPNG(t, 1, 1)},
		"b.png": {Data: []byte("garbage")},
	}
	c := New()
	c.RegisterDecoder(".png", png.Decode)
	c.Build(fsys, []string{"a.png", "b.png"})
	require.Equal(t, "imagecache: 1/2 decoded", c.String())
}
