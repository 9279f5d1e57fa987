// Package tasks defines the background transcode job
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/hibiken/asynq"
)

const (
	// TypeTranscodeVideo is the asynq task type of a queued transcode
	TypeTranscodeVideo = "media:transcode_video"
	// QueueTranscode is the queue transcode tasks are enqueued on
	QueueTranscode = "transcode"
)

// TranscodeVideoPayload carries a stored original to the worker
type TranscodeVideoPayload struct {
	LessonID         int              `json:"lesson_id"`
	OriginalFilename string           `json:"original_filename"`
	OriginalPath     string           `json:"original_path"`
	OriginalSize     int64            `json:"original_size"`
	CompressedFolder string           `json:"compressed_folder"`
	Qualities        []models.Quality `json:"qualities,omitempty"`
}

// NewTranscodeVideoTask builds the asynq task for p
func NewTranscodeVideoTask(p TranscodeVideoPayload) (*asynq.Task, error) {
	if p.LessonID <= 0 || p.OriginalPath == "" {
		return nil, fmt.Errorf("invalid transcode payload: lesson %d, path %q", p.LessonID, p.OriginalPath)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcode payload: %w", err)
	}
	return asynq.NewTask(TypeTranscodeVideo, payload), nil
}

// ParseTranscodeVideoPayload decodes the payload of t
func ParseTranscodeVideoPayload(t *asynq.Task) (*TranscodeVideoPayload, error) {
	var p TranscodeVideoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to parse transcode payload: %w", err)
	}
	if p.LessonID <= 0 || p.OriginalPath == "" {
		return nil, fmt.Errorf("invalid transcode payload: lesson %d, path %q", p.LessonID, p.OriginalPath)
	}
	return &p, nil
}

// Enqueuer is the part of asynq.Client used by Dispatcher
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues transcode tasks
type Dispatcher struct {
	client  Enqueuer
	timeout time.Duration
}

// NewDispatcher creates a dispatcher. taskTimeout bounds one whole task on the worker.
func NewDispatcher(client Enqueuer, taskTimeout time.Duration) *Dispatcher {
	return &Dispatcher{client: client, timeout: taskTimeout}
}

// EnqueueTranscode enqueues p on the transcode queue
func (d *Dispatcher) EnqueueTranscode(ctx context.Context, p TranscodeVideoPayload) error {
	task, err := NewTranscodeVideoTask(p)
	if err != nil {
		return err
	}

	opts := []asynq.Option{asynq.Queue(QueueTranscode), asynq.MaxRetry(3)}
	if d.timeout > 0 {
		opts = append(opts, asynq.Timeout(d.timeout))
	}
	if _, err := d.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue transcode task: %w", err)
	}
	return nil
}

// TaskTimeout bounds a whole transcode task: one ffprobe call, the ffmpeg version check
// and one ffmpeg run per tier, each limited by toolTimeout.
func TaskTimeout(toolTimeout time.Duration) time.Duration {
	if toolTimeout <= 0 {
		return 0
	}
	return time.Duration(len(models.AllQualities)+2)*toolTimeout + time.Minute
}
