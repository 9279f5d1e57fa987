package transcode

import (
	"strconv"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
)

// Preset holds the encoder settings of one tier
type Preset struct {
	Quality models.Quality
	Bitrate string
	Scale   string
	CRF     int
	Format  string
}

var presets = map[models.Quality]Preset{
	models.QualityLow:    {Quality: models.QualityLow, Bitrate: "500k", Scale: "480:270", CRF: 28, Format: "mp4"},
	models.QualityMedium: {Quality: models.QualityMedium, Bitrate: "1500k", Scale: "1280:720", CRF: 23, Format: "mp4"},
	models.QualityHigh:   {Quality: models.QualityHigh, Bitrate: "3000k", Scale: "1920:1080", CRF: 20, Format: "mp4"},
	models.QualityWebM:   {Quality: models.QualityWebM, Bitrate: "1000k", Scale: "1280:720", CRF: 25, Format: "webm"},
}

// PresetFor returns the preset of q
func PresetFor(q models.Quality) (Preset, bool) {
	p, ok := presets[q]
	return p, ok
}

// OutputName returns the derivative file name for a base name
func (p Preset) OutputName(base string) string {
	return base + "_" + string(p.Quality) + "." + p.Format
}

// Args builds the ffmpeg argument list for this tier
func (p Preset) Args(input, output string) []string {
	crf := strconv.Itoa(p.CRF)
	if p.Format == "webm" {
		return []string{
			"-i", input,
			"-vf", "scale=" + p.Scale,
			"-b:v", p.Bitrate,
			"-c:v", "libvpx-vp9",
			"-crf", crf,
			"-c:a", "libopus",
			"-b:a", "128k",
			"-y", output,
		}
	}
	return []string{
		"-i", input,
		"-vf", "scale=" + p.Scale,
		"-c:v", "libx264",
		"-b:v", p.Bitrate,
		"-crf", crf,
		"-preset", "medium",
		"-c:a", "aac",
		"-b:a", "128k",
		"-y", output,
	}
}

// Version describes the derivative written by this preset
func (p Preset) Version(path string, size int64) models.VideoVersion {
	return models.VideoVersion{
		Path:    path,
		Bitrate: p.Bitrate,
		Scale:   p.Scale,
		Size:    size,
		Format:  p.Format,
	}
}
