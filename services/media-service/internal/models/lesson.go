package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ContentType represents the kind of primary content a lesson carries
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeVideo ContentType = "video"
	ContentTypePDF   ContentType = "pdf"
)

// CompressionStatus represents the state of the media pipeline for a lesson
type CompressionStatus string

const (
	CompressionPending    CompressionStatus = "pending"
	CompressionProcessing CompressionStatus = "processing"
	CompressionCompleted  CompressionStatus = "completed"
	CompressionFailed     CompressionStatus = "failed"
)

// ErrInvalidTransition is returned when a compression status change is not allowed
var ErrInvalidTransition = errors.New("invalid compression status transition")

// ErrLessonNotFound is returned when a lesson does not exist
var ErrLessonNotFound = errors.New("lesson not found")

// CanTransition reports whether the status may move from s to next.
// Terminal states may only go back to processing, which happens on re-upload.
func (s CompressionStatus) CanTransition(next CompressionStatus) bool {
	switch s {
	case CompressionPending:
		return next == CompressionProcessing || next == CompressionFailed
	case CompressionProcessing:
		return next == CompressionCompleted || next == CompressionFailed
	case CompressionCompleted, CompressionFailed:
		return next == CompressionProcessing
	default:
		return false
	}
}

// ValidateTransition returns ErrInvalidTransition if s cannot move to next
func (s CompressionStatus) ValidateTransition(next CompressionStatus) error {
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// CompressionMetadata is the aggregate size record of a completed compression
type CompressionMetadata struct {
	OriginalSize        int64   `json:"originalSize"`
	TotalCompressedSize int64   `json:"totalCompressedSize"`
	CompressionRatio    float64 `json:"compressionRatio"`
}

// Scan implements sql.Scanner for the JSON column
func (m *CompressionMetadata) Scan(src any) error {
	return scanJSON(src, m)
}

// Value implements driver.Valuer for the JSON column
func (m CompressionMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Lesson represents a lesson row together with its compression state
type Lesson struct {
	ID                      int                  `json:"id" db:"id"`
	TopicID                 int                  `json:"topicId" db:"topic_id"`
	Title                   string               `json:"title" db:"title"`
	ContentType             ContentType          `json:"contentType" db:"content_type"`
	ContentURL              string               `json:"contentUrl" db:"content_url"`
	TextContent             *string              `json:"textContent,omitempty" db:"text_content"`
	Order                   int                  `json:"order" db:"order_index"`
	CompressionStatus       CompressionStatus    `json:"compressionStatus" db:"compression_status"`
	CompressionMetadata     *CompressionMetadata `json:"compressionMetadata,omitempty" db:"compression_metadata"`
	CompressedVideoVersions VideoVersions        `json:"compressedVideoVersions,omitempty" db:"compressed_video_versions"`
	CompressedImage         *string              `json:"compressedImage,omitempty" db:"compressed_image"`
}

// CompressionUpdate is the set of fields written when a video upload finishes
type CompressionUpdate struct {
	Status        CompressionStatus
	ContentType   ContentType
	ContentURL    string
	Metadata      *CompressionMetadata
	VideoVersions VideoVersions
}

// LessonVideoUpload is the outcome of a video upload bound to a lesson
type LessonVideoUpload struct {
	LessonID int               `json:"lessonId"`
	Status   CompressionStatus `json:"status"`
	Result   VideoResult       `json:"result"`
}

// CompressionState is the response body of the compression status endpoint
type CompressionState struct {
	LessonID int                  `json:"lessonId"`
	Status   CompressionStatus    `json:"status"`
	Metadata *CompressionMetadata `json:"metadata,omitempty"`
	Tiers    []Quality            `json:"tiers"`
}

func scanJSON(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSON column", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
