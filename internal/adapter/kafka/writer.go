package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/sealevel-dashboard/internal/config"
	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
)

// Table names used in message keys and the "table" header.
const (
	tableSeaLevel   = "sea_level"
	tableCatch      = "catch"
	tableOceanRates = "ocean_rates"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes dataset rows to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured dataset topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes every row of every table and writes them in a single
// WriteMessages call. It returns the number of rows written.
func (w *Writer) Publish(ctx context.Context, ds *domain.Dataset) (int, error) {
	msgs, err := datasetMessages(ds)
	if err != nil {
		return 0, err
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("publish dataset %s: %w", ds.ID, err)
	}
	w.logger.Info("dataset published", "dataset_id", ds.ID, "messages", len(msgs))
	return len(msgs), nil
}

// Close flushes and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func datasetMessages(ds *domain.Dataset) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(ds.SeaLevel)+len(ds.Catch)+len(ds.OceanRates))
	for _, p := range ds.SeaLevel {
		msg, err := serializeToMessage(ds, tableSeaLevel, rowKey(tableSeaLevel, p.Year, "KR"), p)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	for _, p := range ds.Catch {
		msg, err := serializeToMessage(ds, tableCatch, rowKey(tableCatch, p.Year, p.Region), p)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	for _, p := range ds.OceanRates {
		msg, err := serializeToMessage(ds, tableOceanRates, rowKey(tableOceanRates, p.Year, p.Code), p)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func rowKey(table string, year int, location string) string {
	return table + ":" + strconv.Itoa(year) + ":" + location
}

// serializeToMessage marshals one table row into a Kafka message.
func serializeToMessage(ds *domain.Dataset, table, key string, row any) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s row: %w", table, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "table", Value: []byte(table)},
			{Key: "dataset_id", Value: []byte(ds.ID)},
			{Key: "generated_at", Value: []byte(ds.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
