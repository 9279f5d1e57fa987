package main

import (
	"context"
	"fmt"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/tasks"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueuedVideoProcessor defines the interface for running queued transcodes
type QueuedVideoProcessor interface {
	// ProcessQueuedVideo transcodes a stored original and records the outcome on the lesson.
	//
	// A lesson that was deleted or is no longer processing is skipped without error.
	// If the outcome could not be saved, the error will be returned and the task retried.
	ProcessQueuedVideo(ctx context.Context, p tasks.TranscodeVideoPayload) error
}

// Worker handles transcode task processing
type Worker struct {
	logger    *zap.Logger
	processor QueuedVideoProcessor
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, processor QueuedVideoProcessor) *Worker {
	return &Worker{
		logger:    logger,
		processor: processor,
	}
}

// HandleTranscodeVideo handles media:transcode_video tasks
func (w *Worker) HandleTranscodeVideo(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseTranscodeVideoPayload(t)
	if err != nil {
		w.logger.Error("invalid transcode task payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	w.logger.Info("processing transcode task",
		zap.Int("lesson_id", payload.LessonID),
		zap.String("path", payload.OriginalPath),
	)

	if err := w.processor.ProcessQueuedVideo(ctx, *payload); err != nil {
		w.logger.Error("transcode task failed",
			zap.Int("lesson_id", payload.LessonID),
			zap.Error(err),
		)
		return err
	}

	return nil
}
