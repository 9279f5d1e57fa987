package transcode

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"go.uber.org/zap"
)

// Prober reads video metadata with ffprobe
type Prober struct {
	exec    Executor
	ffprobe string
	timeout time.Duration
	logger  *zap.Logger
}

// NewProber creates a new prober
func NewProber(exec Executor, ffprobePath string, timeout time.Duration, logger *zap.Logger) *Prober {
	return &Prober{
		exec:    exec,
		ffprobe: ffprobePath,
		timeout: timeout,
		logger:  logger,
	}
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
	Streams []models.StreamInfo `json:"streams"`
}

// Probe returns duration, size and streams of path.
// Any failure yields the zero value since metadata is advisory.
func (p *Prober) Probe(ctx context.Context, path string) models.VideoMetadata {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.exec.Run(ctx, p.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration,size:stream=width,height,codec_type",
		"-of", "json",
		path,
	)
	if err != nil {
		p.logger.Warn("ffprobe failed", zap.String("path", path), zap.Error(err))
		return models.VideoMetadata{}
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		p.logger.Warn("ffprobe output malformed", zap.String("path", path), zap.Error(err))
		return models.VideoMetadata{}
	}

	meta := models.VideoMetadata{Streams: parsed.Streams}
	if parsed.Format.Duration != "" {
		meta.Duration, _ = strconv.ParseFloat(parsed.Format.Duration, 64)
	}
	if parsed.Format.Size != "" {
		meta.Size, _ = strconv.ParseInt(parsed.Format.Size, 10, 64)
	}
	return meta
}
