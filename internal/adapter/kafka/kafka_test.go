package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error {
	r.closed = true
	return nil
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		ID:          "ds-1",
		GeneratedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		SeaLevel:    []domain.SeaLevelPoint{{Year: 1989, LevelMM: 0.4}},
		Catch: []domain.RegionCatchPoint{
			{Year: 1989, Region: "부산광역시", Label: "Busan", CatchTons: 250100},
			{Year: 1989, Region: "서울특별시", Label: "Seoul", CatchTons: 0},
		},
		OceanRates: []domain.OceanRatePoint{{Year: 1993, Code: "pacific", Ocean: "Pacific Ocean", RateMMPerYear: 3.5}},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSerializeToMessage(t *testing.T) {
	ds := testDataset()

	msg, err := serializeToMessage(ds, tableOceanRates, "ocean_rates:1993:pacific", ds.OceanRates[0])
	require.NoError(t, err)

	assert.Equal(t, []byte("ocean_rates:1993:pacific"), msg.Key)
	assert.JSONEq(t, `{"year":1993,"code":"pacific","ocean":"Pacific Ocean","rate_mm_per_year":3.5}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "table", msg.Headers[0].Key)
	assert.Equal(t, []byte("ocean_rates"), msg.Headers[0].Value)
	assert.Equal(t, "dataset_id", msg.Headers[1].Key)
	assert.Equal(t, []byte("ds-1"), msg.Headers[1].Value)
	assert.Equal(t, "generated_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2024-06-01T09:00:00Z"), msg.Headers[2].Value)
}

func TestWriter_PublishAllRows(t *testing.T) {
	rec := &recordingWriter{}
	w := &Writer{writer: rec, logger: discardLogger()}

	n, err := w.Publish(context.Background(), testDataset())
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	require.Len(t, rec.msgs, 4)
	assert.Equal(t, []byte("sea_level:1989:KR"), rec.msgs[0].Key)
	assert.Equal(t, []byte("catch:1989:부산광역시"), rec.msgs[1].Key)
	assert.Equal(t, []byte("catch:1989:서울특별시"), rec.msgs[2].Key)
	assert.Equal(t, []byte("ocean_rates:1993:pacific"), rec.msgs[3].Key)
}

func TestWriter_PublishError(t *testing.T) {
	rec := &recordingWriter{err: errors.New("broker unavailable")}
	w := &Writer{writer: rec, logger: discardLogger()}

	_, err := w.Publish(context.Background(), testDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ds-1")
}

func TestWriter_Close(t *testing.T) {
	rec := &recordingWriter{}
	w := &Writer{writer: rec, logger: discardLogger()}

	require.NoError(t, w.Close())
	assert.True(t, rec.closed)
}
