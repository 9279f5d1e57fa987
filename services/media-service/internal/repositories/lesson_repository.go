package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/jmoiron/sqlx"
)

// lessonRepository implements lesson repository operations
type lessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sqlx.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetByID retrieves a lesson with its compression state
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	const query = `
		SELECT id, topic_id, title, content_type, content_url, text_content, order_index,
			compression_status, compression_metadata, compressed_video_versions, compressed_image
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// UpdateStatus changes the compression status only if it is still from.
// A lesson whose status moved on returns models.ErrInvalidTransition.
func (r *lessonRepository) UpdateStatus(ctx context.Context, id int, from, to models.CompressionStatus) error {
	if err := from.ValidateTransition(to); err != nil {
		return err
	}

	query := `
		UPDATE lessons
		SET compression_status = ?
		WHERE id = ? AND compression_status = ?
	`
	if to == models.CompressionProcessing {
		query = `
			UPDATE lessons
			SET compression_status = ?, compression_started_at = CURRENT_TIMESTAMP
			WHERE id = ? AND compression_status = ?
		`
	}

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update compression status: %w", err)
	}

	return r.checkAffected(ctx, result, id, from, to)
}

// ReclaimStale restarts the processing run of a lesson whose run started more than olderThan ago.
// A run that is still fresh returns models.ErrInvalidTransition.
func (r *lessonRepository) ReclaimStale(ctx context.Context, id int, olderThan time.Duration) error {
	const query = `
		UPDATE lessons
		SET compression_started_at = CURRENT_TIMESTAMP
		WHERE id = ? AND compression_status = ?
			AND (compression_started_at IS NULL OR compression_started_at < CURRENT_TIMESTAMP - INTERVAL ? SECOND)
	`

	result, err := r.db.ExecContext(ctx, query, id, models.CompressionProcessing, int64(olderThan/time.Second))
	if err != nil {
		return fmt.Errorf("failed to reclaim stale lesson: %w", err)
	}

	return r.checkAffected(ctx, result, id, models.CompressionProcessing, models.CompressionProcessing)
}

// SaveCompression writes the outcome of a video upload.
// The lesson must be processing; metadata and versions are cleared when they are empty.
func (r *lessonRepository) SaveCompression(ctx context.Context, id int, update models.CompressionUpdate) error {
	if err := models.CompressionProcessing.ValidateTransition(update.Status); err != nil {
		return err
	}
	if err := update.VideoVersions.Validate(); err != nil {
		return fmt.Errorf("failed to save compression: %w", err)
	}
	if update.Status == models.CompressionCompleted && len(update.VideoVersions) == 0 {
		return fmt.Errorf("failed to save compression: completed lesson without video versions")
	}

	const query = `
		UPDATE lessons
		SET compression_status = ?,
			content_type = ?,
			content_url = ?,
			compression_metadata = ?,
			compressed_video_versions = ?
		WHERE id = ? AND compression_status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		update.Status,
		update.ContentType,
		update.ContentURL,
		update.Metadata,
		update.VideoVersions,
		id,
		models.CompressionProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to save compression: %w", err)
	}

	return r.checkAffected(ctx, result, id, models.CompressionProcessing, update.Status)
}

// SetCompressedImage stores the path of the JPEG derivative
func (r *lessonRepository) SetCompressedImage(ctx context.Context, id int, path string) error {
	const query = `UPDATE lessons SET compressed_image = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("failed to set compressed image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// MySQL reports 0 for an unchanged row, so tell that apart from a missing one
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// checkAffected resolves a conditional update that touched no row
func (r *lessonRepository) checkAffected(ctx context.Context, result sql.Result, id int, from, to models.CompressionStatus) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	lesson, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: lesson %d is %s, expected %s -> %s",
		models.ErrInvalidTransition, id, lesson.CompressionStatus, from, to)
}
