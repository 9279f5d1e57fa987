package compress

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeRGBAPNG writes a w×h PNG that is transparent except for an opaque red square in the top-left corner
func writeRGBAPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h/2; y++ {
		for x := 0; x < w/2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestImageCompressor_Compress_LargeRGBA(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cover.png")
	writeRGBAPNG(t, input, 4000, 2000)

	c := NewImageCompressor(zap.NewNop())
	res, err := c.Compress(input, dir, ImageOptions{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cover_compressed_85.jpg"), res.JPEGPath)
	assert.Equal(t, filepath.Join(dir, "cover_compressed.webp"), res.WebPPath)

	jpg, err := imaging.Open(res.JPEGPath)
	require.NoError(t, err)
	assert.LessOrEqual(t, jpg.Bounds().Dx(), 1920)
	assert.Equal(t, 960, jpg.Bounds().Dy())

	// the transparent quadrant is flattened to white
	r, g, b, _ := jpg.At(1800, 900).RGBA()
	assert.Greater(t, r>>8, uint32(245))
	assert.Greater(t, g>>8, uint32(245))
	assert.Greater(t, b>>8, uint32(245))
	// the opaque quadrant stays red
	r, g, b, _ = jpg.At(100, 100).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(60))
	assert.Less(t, b>>8, uint32(60))

	webpImg, err := imaging.Open(res.WebPPath)
	require.NoError(t, err)
	assert.Equal(t, 1920, webpImg.Bounds().Dx())

	info, err := os.Stat(input)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), res.OriginalSize)
	assert.Equal(t, models.CompressionRatio(res.CompressedSize, res.OriginalSize), res.CompressionRatio)
}

func TestImageCompressor_Compress_SmallImageKeepsSize(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "icon.png")
	writeRGBAPNG(t, input, 320, 200)

	c := NewImageCompressor(zap.NewNop())
	res, err := c.Compress(input, dir, ImageOptions{Quality: QualityValue(60)})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "icon_compressed_60.jpg"), res.JPEGPath)
	jpg, err := imaging.Open(res.JPEGPath)
	require.NoError(t, err)
	assert.Equal(t, 320, jpg.Bounds().Dx())
}

func TestImageCompressor_Compress_ZeroQuality(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.png")
	writeRGBAPNG(t, input, 64, 64)

	c := NewImageCompressor(zap.NewNop())
	res, err := c.Compress(input, dir, ImageOptions{Quality: QualityValue(0)})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a_compressed_0.jpg"), res.JPEGPath)
	assert.FileExists(t, res.WebPPath)

	// a lower quality never produces a larger JPEG
	best, err := c.Compress(input, t.TempDir(), ImageOptions{Quality: QualityValue(100)})
	require.NoError(t, err)
	assert.Less(t, res.CompressedSize, best.CompressedSize)
}

func TestImageCompressor_Compress_Errors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0644))
	valid := filepath.Join(dir, "ok.png")
	writeRGBAPNG(t, valid, 10, 10)

	tests := []struct {
		name         string
		input        string
		outputDir    string
		opts         ImageOptions
		expectedKind models.ErrorKind
	}{
		{name: "corrupt file", input: corrupt, outputDir: dir, expectedKind: models.KindImageCompressionError},
		{name: "missing file", input: filepath.Join(dir, "missing.png"), outputDir: dir, expectedKind: models.KindImageCompressionError},
		{name: "unwritable output", input: valid, outputDir: filepath.Join(dir, "nope"), expectedKind: models.KindImageCompressionError},
		{name: "quality out of range", input: valid, outputDir: dir, opts: ImageOptions{Quality: QualityValue(120)}, expectedKind: models.KindInvalidQuality},
	}

	c := NewImageCompressor(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Compress(tt.input, tt.outputDir, tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.expectedKind, models.KindOf(err))
		})
	}
}
