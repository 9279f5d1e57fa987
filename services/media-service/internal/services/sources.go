package services

import (
	"github.com/alaihsan/cendrawasih/services/media-service/internal/formats"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
)

type sourceName struct {
	short string
	label string
}

var sourceNames = map[models.Quality]sourceName{
	models.QualityLow:    {short: "Low", label: "Low (480p)"},
	models.QualityMedium: {short: "Medium", label: "Medium (720p)"},
	models.QualityHigh:   {short: "High", label: "High (1080p)"},
	models.QualityWebM:   {short: "WebM", label: "WebM (720p)"},
}

// BuildVideoSources lists the playable sources of a lesson in the order low, medium, high, webm.
// Without transcoded tiers the original content is returned as a single unlabeled source.
func BuildVideoSources(lesson *models.Lesson) []models.VideoSource {
	if lesson == nil {
		return nil
	}

	if len(lesson.CompressedVideoVersions) == 0 {
		if lesson.ContentURL == "" {
			return []models.VideoSource{}
		}
		return []models.VideoSource{{
			Src:  lesson.ContentURL,
			Type: formats.MimeType(formats.Extension(lesson.ContentURL)),
		}}
	}

	sources := make([]models.VideoSource, 0, len(lesson.CompressedVideoVersions))
	for _, q := range models.AllQualities {
		version, ok := lesson.CompressedVideoVersions[q]
		if !ok {
			continue
		}
		mime := "video/mp4"
		if q == models.QualityWebM {
			mime = "video/webm"
		}
		name := sourceNames[q]
		sources = append(sources, models.VideoSource{
			Src:     version.Path,
			Type:    mime,
			Quality: name.short,
			Label:   name.label,
		})
	}
	return sources
}
