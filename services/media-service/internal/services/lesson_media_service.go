package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/compress"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/events"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/metrics"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/tasks"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/transcode"
	"go.uber.org/zap"
)

// LessonRepository defines the interface for lesson data access
type LessonRepository interface {
	// GetByID returns models.ErrLessonNotFound when the lesson does not exist
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// UpdateStatus moves the compression status from -> to, failing if the stored status is not from
	UpdateStatus(ctx context.Context, id int, from, to models.CompressionStatus) error
	// ReclaimStale restarts a processing run older than olderThan, failing with models.ErrInvalidTransition otherwise
	ReclaimStale(ctx context.Context, id int, olderThan time.Duration) error
	// SaveCompression writes the outcome of a video upload to a lesson that is processing
	SaveCompression(ctx context.Context, id int, update models.CompressionUpdate) error
	// SetCompressedImage stores the JPEG derivative path
	SetCompressedImage(ctx context.Context, id int, path string) error
}

// MediaUploader is the upload orchestrator used by LessonMediaService
type MediaUploader interface {
	StoreVideoOriginal(file *models.UploadedFile, uploadFolder, compressedFolder string) (*StoredFile, error)
	ProcessStoredVideo(ctx context.Context, stored *StoredFile, compressedFolder string, opts transcode.Options) models.VideoResult
	SaveImageFile(ctx context.Context, file *models.UploadedFile, uploadFolder, compressedFolder string, opts compress.ImageOptions) models.ImageResult
}

// TranscodeQueue hands stored originals to the background worker
type TranscodeQueue interface {
	EnqueueTranscode(ctx context.Context, p tasks.TranscodeVideoPayload) error
}

// EventPublisher emits compression status changes
type EventPublisher interface {
	Publish(ctx context.Context, evt *events.LessonCompressionChanged) error
}

// LessonMediaService binds uploads to lessons.
// Uploads of one lesson never interleave; with a queue set, video transcoding runs on the worker.
type LessonMediaService struct {
	repo             LessonRepository
	uploader         MediaUploader
	queue            TranscodeQueue
	events           EventPublisher
	uploadFolder     string
	compressedFolder string
	staleAfter       time.Duration
	locks            *lessonLocks
	logger           *zap.Logger
}

// NewLessonMediaService creates a new lesson media service. A nil queue selects synchronous mode.
// A lesson stuck in processing for longer than staleAfter may be taken over by a new upload;
// zero disables the takeover.
func NewLessonMediaService(
	repo LessonRepository,
	uploader MediaUploader,
	queue TranscodeQueue,
	publisher EventPublisher,
	uploadFolder, compressedFolder string,
	staleAfter time.Duration,
	logger *zap.Logger,
) *LessonMediaService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LessonMediaService{
		repo:             repo,
		uploader:         uploader,
		queue:            queue,
		events:           publisher,
		uploadFolder:     uploadFolder,
		compressedFolder: compressedFolder,
		staleAfter:       staleAfter,
		locks:            newLessonLocks(),
		logger:           logger,
	}
}

// UploadVideo stores a new original for the lesson and transcodes it, inline or on the worker.
// Pipeline failures are reported in the result; the error is reserved for lesson lookup,
// status conflicts and persistence.
func (s *LessonMediaService) UploadVideo(ctx context.Context, lessonID int, file *models.UploadedFile, qualities []models.Quality) (*models.LessonVideoUpload, error) {
	if _, err := transcode.ResolveQualities(qualities); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(lessonID)
	defer unlock()

	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	from := lesson.CompressionStatus
	reclaimed := from == models.CompressionProcessing && s.staleAfter > 0
	if reclaimed {
		if err := s.repo.ReclaimStale(ctx, lessonID, s.staleAfter); err != nil {
			return nil, err
		}
		s.logger.Warn("taking over stale processing lesson", zap.Int("lesson_id", lessonID))
	} else if err := from.ValidateTransition(models.CompressionProcessing); err != nil {
		return nil, err
	}

	stored, err := s.uploader.StoreVideoOriginal(file, s.uploadFolder, s.compressedFolder)
	if err != nil {
		metrics.Uploads.WithLabelValues(string(models.MediaClassVideo), string(models.KindOf(err))).Inc()
		status := from
		if reclaimed {
			status = s.markFailed(ctx, lessonID)
		}
		return &models.LessonVideoUpload{LessonID: lessonID, Status: status, Result: models.VideoFailure(err)}, nil
	}

	if !reclaimed {
		if err := s.repo.UpdateStatus(ctx, lessonID, from, models.CompressionProcessing); err != nil {
			return nil, err
		}
	}
	s.publish(ctx, events.NewLessonCompressionChanged(lessonID, from, models.CompressionProcessing))

	if s.queue != nil {
		return s.enqueue(ctx, lessonID, stored, qualities)
	}

	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	result := s.uploader.ProcessStoredVideo(ctx, stored, s.compressedFolder, transcode.Options{Qualities: qualities})
	status, err := s.applyVideoResult(ctx, lessonID, stored, result)
	if err != nil {
		s.abandon(ctx, lessonID, err)
		return nil, err
	}
	return &models.LessonVideoUpload{LessonID: lessonID, Status: status, Result: result}, nil
}

// ProcessQueuedVideo runs a transcode task enqueued by UploadVideo.
// A lesson that is no longer processing is skipped.
func (s *LessonMediaService) ProcessQueuedVideo(ctx context.Context, p tasks.TranscodeVideoPayload) error {
	unlock := s.locks.Lock(p.LessonID)
	defer unlock()

	lesson, err := s.repo.GetByID(ctx, p.LessonID)
	if err != nil {
		if errors.Is(err, models.ErrLessonNotFound) {
			s.logger.Info("lesson deleted before transcode, skipping", zap.Int("lesson_id", p.LessonID))
			return nil
		}
		return err
	}
	if lesson.CompressionStatus != models.CompressionProcessing {
		s.logger.Info("lesson not processing, skipping stale transcode",
			zap.Int("lesson_id", p.LessonID),
			zap.String("status", string(lesson.CompressionStatus)),
		)
		return nil
	}

	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	compressedFolder := p.CompressedFolder
	if compressedFolder == "" {
		compressedFolder = s.compressedFolder
	}
	stored := &StoredFile{Filename: p.OriginalFilename, Path: p.OriginalPath, Size: p.OriginalSize}
	result := s.uploader.ProcessStoredVideo(ctx, stored, compressedFolder, transcode.Options{Qualities: p.Qualities})

	_, err = s.applyVideoResult(ctx, p.LessonID, stored, result)
	return err
}

// UploadImage compresses an image and records the JPEG derivative on the lesson
func (s *LessonMediaService) UploadImage(ctx context.Context, lessonID int, file *models.UploadedFile, opts compress.ImageOptions) (*models.ImageResult, error) {
	unlock := s.locks.Lock(lessonID)
	defer unlock()

	if _, err := s.repo.GetByID(ctx, lessonID); err != nil {
		return nil, err
	}

	result := s.uploader.SaveImageFile(ctx, file, s.uploadFolder, s.compressedFolder, opts)
	if !result.Success {
		return &result, nil
	}

	if err := s.repo.SetCompressedImage(ctx, lessonID, result.JPEGPath); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSources returns the ordered playable sources of a lesson
func (s *LessonMediaService) GetSources(ctx context.Context, lessonID int) ([]models.VideoSource, error) {
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return BuildVideoSources(lesson), nil
}

// GetCompressionState returns the compression status of a lesson
func (s *LessonMediaService) GetCompressionState(ctx context.Context, lessonID int) (*models.CompressionState, error) {
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return &models.CompressionState{
		LessonID: lesson.ID,
		Status:   lesson.CompressionStatus,
		Metadata: lesson.CompressionMetadata,
		Tiers:    lesson.CompressedVideoVersions.Qualities(),
	}, nil
}

func (s *LessonMediaService) enqueue(ctx context.Context, lessonID int, stored *StoredFile, qualities []models.Quality) (*models.LessonVideoUpload, error) {
	err := s.queue.EnqueueTranscode(ctx, tasks.TranscodeVideoPayload{
		LessonID:         lessonID,
		OriginalFilename: stored.Filename,
		OriginalPath:     stored.Path,
		OriginalSize:     stored.Size,
		CompressedFolder: s.compressedFolder,
		Qualities:        qualities,
	})
	if err != nil {
		result := models.VideoFailure(models.NewMediaError(models.KindStorageError, "Failed to queue video compression", err))
		if _, saveErr := s.applyVideoResult(ctx, lessonID, stored, result); saveErr != nil {
			s.logger.Error("failed to mark lesson failed after enqueue error", zap.Int("lesson_id", lessonID), zap.Error(saveErr))
			s.abandon(ctx, lessonID, saveErr)
		}
		return nil, err
	}

	s.logger.Info("video queued for compression", zap.Int("lesson_id", lessonID), zap.String("path", stored.Path))
	return &models.LessonVideoUpload{
		LessonID: lessonID,
		Status:   models.CompressionProcessing,
		Result: models.VideoResult{
			Success:          true,
			Message:          "Video queued for compression",
			OriginalFilename: stored.Filename,
			OriginalPath:     stored.Path,
			OriginalSize:     stored.Size,
		},
	}, nil
}

// applyVideoResult persists a finished upload. The new original becomes the lesson content
// even when transcoding failed so it can still be served.
func (s *LessonMediaService) applyVideoResult(ctx context.Context, lessonID int, stored *StoredFile, result models.VideoResult) (models.CompressionStatus, error) {
	// the outcome must be recorded even if the client went away
	ctx = context.WithoutCancel(ctx)

	update := models.CompressionUpdate{
		Status:      models.CompressionFailed,
		ContentType: models.ContentTypeVideo,
		ContentURL:  stored.Path,
	}
	if result.Success {
		update.Status = models.CompressionCompleted
		update.Metadata = &models.CompressionMetadata{
			OriginalSize:        result.OriginalSize,
			TotalCompressedSize: result.TotalSize,
			CompressionRatio:    result.CompressionRatio,
		}
		update.VideoVersions = result.Versions
	}

	if err := s.repo.SaveCompression(ctx, lessonID, update); err != nil {
		return "", fmt.Errorf("failed to save compression result: %w", err)
	}

	evt := events.NewLessonCompressionChanged(lessonID, models.CompressionProcessing, update.Status)
	if result.Success {
		ratio := result.CompressionRatio
		evt.CompressionRatio = &ratio
		evt.Tiers = result.Versions.Qualities()
	} else {
		evt.Message = result.Message
	}
	s.publish(ctx, evt)

	s.logger.Info("lesson compression finished",
		zap.Int("lesson_id", lessonID),
		zap.String("status", string(update.Status)),
		zap.String("message", result.Message),
	)
	return update.Status, nil
}

// abandon moves a lesson out of processing after its result could not be saved.
// Errors meaning the lesson moved on are left alone.
func (s *LessonMediaService) abandon(ctx context.Context, lessonID int, saveErr error) {
	if errors.Is(saveErr, models.ErrInvalidTransition) || errors.Is(saveErr, models.ErrLessonNotFound) {
		return
	}
	s.markFailed(ctx, lessonID)
}

// markFailed is a best-effort processing -> failed update; it returns the status the lesson is left in
func (s *LessonMediaService) markFailed(ctx context.Context, lessonID int) models.CompressionStatus {
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.UpdateStatus(ctx, lessonID, models.CompressionProcessing, models.CompressionFailed); err != nil {
		s.logger.Error("failed to mark lesson failed", zap.Int("lesson_id", lessonID), zap.Error(err))
		return models.CompressionProcessing
	}
	s.publish(ctx, events.NewLessonCompressionChanged(lessonID, models.CompressionProcessing, models.CompressionFailed))
	return models.CompressionFailed
}

func (s *LessonMediaService) publish(ctx context.Context, evt *events.LessonCompressionChanged) {
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish compression event",
			zap.Int("lesson_id", evt.LessonID),
			zap.String("to", string(evt.To)),
			zap.Error(err),
		)
	}
}
