package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/wind-map/internal/config"
	"github.com/couchcryptid/wind-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces wind snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a snapshot and writes it synchronously.
func (w *Writer) Publish(ctx context.Context, snap domain.WindSnapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot to %s: %w", w.writer.Topic, err)
	}
	w.logger.Debug("snapshot written to kafka", "topic", w.writer.Topic, "key", string(msg.Key))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a snapshot into a Kafka message keyed by
// coordinate, so snapshots of one place land on one partition.
func serializeToMessage(snap domain.WindSnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize wind snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(locationKey(snap.Location)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "compass", Value: []byte(snap.Visual.Compass)},
			{Key: "rendered_at", Value: []byte(snap.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}

func locationKey(loc domain.Location) string {
	return strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lon, 'f', -1, 64)
}
