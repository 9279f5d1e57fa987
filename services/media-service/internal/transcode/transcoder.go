package transcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/metrics"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"go.uber.org/zap"
)

// Options selects the tiers to produce. An empty Qualities means all tiers.
type Options struct {
	Qualities []models.Quality
}

// Transcoder produces quality tiers of a video with ffmpeg
type Transcoder struct {
	exec    Executor
	ffmpeg  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewTranscoder creates a new transcoder.
// timeout bounds every single ffmpeg invocation; zero disables it.
func NewTranscoder(exec Executor, ffmpegPath string, timeout time.Duration, logger *zap.Logger) *Transcoder {
	return &Transcoder{
		exec:    exec,
		ffmpeg:  ffmpegPath,
		timeout: timeout,
		logger:  logger,
	}
}

// ResolveQualities validates requested tiers and returns them deduplicated in priority order
func ResolveQualities(requested []models.Quality) ([]models.Quality, error) {
	if len(requested) == 0 {
		return models.AllQualities, nil
	}
	want := make(map[models.Quality]bool, len(requested))
	for _, q := range requested {
		if !q.IsValid() {
			return nil, models.NewMediaError(models.KindInvalidQuality, fmt.Sprintf("Unknown quality %q", q), nil)
		}
		want[q] = true
	}
	out := make([]models.Quality, 0, len(want))
	for _, q := range models.AllQualities {
		if want[q] {
			out = append(out, q)
		}
	}
	return out, nil
}

// CheckAvailable runs "ffmpeg -version"
func (t *Transcoder) CheckAvailable(ctx context.Context) error {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	if _, err := t.exec.Run(ctx, t.ffmpeg, "-version"); err != nil {
		return models.NewMediaError(models.KindToolUnavailable, "FFmpeg not installed. Install it from ffmpeg.org", err)
	}
	return nil
}

// Transcode writes every requested tier of inputPath into outputDir as <base>_<tier>.<ext>.
// A failing tier is logged and skipped; the call fails only when no tier succeeds.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputDir string, opts Options) (*models.TranscodeResult, error) {
	qualities, err := ResolveQualities(opts.Qualities)
	if err != nil {
		return nil, err
	}

	if err := t.CheckAvailable(ctx); err != nil {
		return nil, err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, models.NewMediaError(models.KindTranscodeFailed, "Video compression error: "+err.Error(), err)
	}

	start := time.Now()
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	versions := make(models.VideoVersions, len(qualities))

	for _, q := range qualities {
		preset, _ := PresetFor(q)
		output := filepath.Join(outputDir, preset.OutputName(base))

		size, err := t.runTier(ctx, preset, inputPath, output)
		if err != nil {
			t.logger.Warn("transcode tier failed",
				zap.String("input", inputPath),
				zap.String("quality", string(q)),
				zap.Error(err),
			)
			metrics.TierResults.WithLabelValues(string(q), metrics.OutcomeFailure).Inc()
			os.Remove(output)
			continue
		}

		metrics.TierResults.WithLabelValues(string(q), metrics.OutcomeSuccess).Inc()
		versions[q] = preset.Version(output, size)
	}
	metrics.TranscodeDuration.Observe(time.Since(start).Seconds())

	if len(versions) == 0 {
		return nil, models.NewMediaError(models.KindTranscodeFailed, "Video compression failed. Check FFmpeg installation.", nil)
	}

	total := versions.TotalSize()
	result := &models.TranscodeResult{
		OriginalSize:        info.Size(),
		TotalCompressedSize: total,
		CompressionRatio:    models.CompressionRatio(total, info.Size()),
		Versions:            versions,
	}

	t.logger.Info("video transcoded",
		zap.String("input", inputPath),
		zap.Int("tiers", len(versions)),
		zap.Int64("original_size", result.OriginalSize),
		zap.Int64("total_compressed_size", total),
		zap.Float64("ratio", result.CompressionRatio),
	)
	return result, nil
}

// runTier runs one ffmpeg invocation and returns the output size
func (t *Transcoder) runTier(ctx context.Context, preset Preset, input, output string) (int64, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	if _, err := t.exec.Run(ctx, t.ffmpeg, preset.Args(input, output)...); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Stat(output)
	if err != nil {
		return 0, fmt.Errorf("missing output: %w", err)
	}
	return info.Size(), nil
}

func (t *Transcoder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}
