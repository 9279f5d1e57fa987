// Package compress produces the JPEG and WebP derivatives of uploaded images
package compress

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	// registers the WebP decoder with image.Decode
	_ "golang.org/x/image/webp"
)

const (
	DefaultQuality  = 85
	DefaultMaxWidth = 1920
)

// ImageOptions controls the derivatives.
// A nil Quality takes DefaultQuality; 0 is a valid quality. A non-positive MaxWidth takes DefaultMaxWidth.
type ImageOptions struct {
	Quality  *int
	MaxWidth int
}

// QualityValue returns q as an ImageOptions.Quality
func QualityValue(q int) *int {
	return &q
}

func (o ImageOptions) withDefaults() ImageOptions {
	if o.Quality == nil {
		o.Quality = QualityValue(DefaultQuality)
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	return o
}

// ImageCompressor resizes and re-encodes images
type ImageCompressor struct {
	logger *zap.Logger
}

// NewImageCompressor creates a new image compressor
func NewImageCompressor(logger *zap.Logger) *ImageCompressor {
	return &ImageCompressor{logger: logger}
}

// Compress writes <base>_compressed_<q>.jpg and <base>_compressed.webp into outputDir.
// The image is downscaled to opts.MaxWidth and flattened onto white before encoding.
// The ratio is computed from the JPEG derivative.
func (c *ImageCompressor) Compress(inputPath, outputDir string, opts ImageOptions) (*models.ImageCompression, error) {
	opts = opts.withDefaults()
	quality := *opts.Quality
	if quality < 0 || quality > 100 {
		return nil, models.NewMediaError(models.KindInvalidQuality, fmt.Sprintf("Image quality %d out of range 0-100", quality), nil)
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, compressionError(err)
	}
	originalSize := info.Size()

	img, err := imaging.Open(inputPath)
	if err != nil {
		return nil, compressionError(err)
	}

	if img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}
	flat := flatten(img)

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	jpegPath := filepath.Join(outputDir, fmt.Sprintf("%s_compressed_%d.jpg", base, quality))
	webpPath := filepath.Join(outputDir, base+"_compressed.webp")

	if err := imaging.Save(flat, jpegPath, imaging.JPEGQuality(quality)); err != nil {
		return nil, compressionError(err)
	}
	if err := saveWebP(flat, webpPath, quality); err != nil {
		os.Remove(jpegPath)
		return nil, compressionError(err)
	}

	jpegInfo, err := os.Stat(jpegPath)
	if err != nil {
		return nil, compressionError(err)
	}

	result := &models.ImageCompression{
		OriginalSize:     originalSize,
		CompressedSize:   jpegInfo.Size(),
		CompressionRatio: models.CompressionRatio(jpegInfo.Size(), originalSize),
		JPEGPath:         jpegPath,
		WebPPath:         webpPath,
	}

	c.logger.Info("image compressed",
		zap.String("input", inputPath),
		zap.Int64("original_size", result.OriginalSize),
		zap.Int64("compressed_size", result.CompressedSize),
		zap.Float64("ratio", result.CompressionRatio),
	)
	return result, nil
}

// flatten composes img over an opaque white canvas of the same size
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func saveWebP(img image.Image, path string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func compressionError(err error) error {
	return models.NewMediaError(models.KindImageCompressionError, "Image compression error: "+err.Error(), err)
}
