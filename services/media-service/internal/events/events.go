// Package events publishes lesson compression status changes to Kafka
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventTypeCompressionChanged is the type of LessonCompressionChanged
const EventTypeCompressionChanged = "LessonCompressionChanged"

// LessonCompressionChanged is emitted whenever a lesson changes compression status
type LessonCompressionChanged struct {
	EventID          uuid.UUID                `json:"event_id"`
	EventType        string                   `json:"event_type"`
	LessonID         int                      `json:"lesson_id"`
	From             models.CompressionStatus `json:"from"`
	To               models.CompressionStatus `json:"to"`
	Tiers            []models.Quality         `json:"tiers,omitempty"`
	CompressionRatio *float64                 `json:"compression_ratio,omitempty"`
	Message          string                   `json:"message,omitempty"`
	OccurredAt       time.Time                `json:"occurred_at"`
}

// NewLessonCompressionChanged creates an event with a fresh ID
func NewLessonCompressionChanged(lessonID int, from, to models.CompressionStatus) *LessonCompressionChanged {
	return &LessonCompressionChanged{
		EventID:    uuid.New(),
		EventType:  EventTypeCompressionChanged,
		LessonID:   lessonID,
		From:       from,
		To:         to,
		OccurredAt: time.Now().UTC(),
	}
}

// messageWriter is the part of kafka-go's Writer used by Producer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer writes events keyed by lesson ID so one lesson's events stay ordered
type Producer struct {
	writer messageWriter
	logger *zap.Logger
}

// NewProducer creates a Kafka producer for topic
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Publish sends evt
func (p *Producer) Publish(ctx context.Context, evt *LessonCompressionChanged) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strconv.Itoa(evt.LessonID)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}

	p.logger.Debug("compression event published",
		zap.Int("lesson_id", evt.LessonID),
		zap.String("from", string(evt.From)),
		zap.String("to", string(evt.To)),
	)
	return nil
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events; used when no brokers are configured
type NopPublisher struct{}

// Publish implements the publisher interface
func (NopPublisher) Publish(ctx context.Context, evt *LessonCompressionChanged) error {
	return nil
}

// Close implements io.Closer
func (NopPublisher) Close() error {
	return nil
}
