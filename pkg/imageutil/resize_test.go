package imageutil_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"go-internship-backend/pkg/imageutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressScalesDownLongestSide(t *testing.T) {
	data := encodePNG(t, 800, 400)

	out, err := imageutil.Compress(data, 200, 80)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestCompressKeepsSmallImages(t *testing.T) {
	data := encodePNG(t, 64, 64)

	out, err := imageutil.Compress(data, 512, 80)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 64, decoded.Bounds().Dy())
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := imageutil.Compress([]byte("definitely not an image"), 512, 80)
	assert.Error(t, err)
}
