package timeseries

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu     sync.Mutex
	points []*write.Point
	err    error
}

func (w *fakeWriter) WritePoint(_ context.Context, point ...*write.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.points = append(w.points, point...)
	return nil
}

func approvedRecord(t *testing.T) *consumption.ConsumptionRecord {
	t.Helper()
	record, err := consumption.NewConsumptionRecord(
		uuid.New(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1250), decimal.NewFromInt(1000),
		uuid.New(),
	)
	require.NoError(t, err)
	record.ClearDomainEvents()
	require.NoError(t, approval.Review(record, approval.StateApproved, uuid.New(), "", time.Now()))
	return record
}

func TestUsageRecorder_Handle(t *testing.T) {
	t.Run("writes a point for an approved record", func(t *testing.T) {
		writer := &fakeWriter{}
		recorder := NewUsageRecorder(writer, zap.NewNop())
		record := approvedRecord(t)
		events := record.GetDomainEvents()
		require.Len(t, events, 1)

		require.NoError(t, recorder.Handle(context.Background(), events[0]))

		require.Len(t, writer.points, 1)
		point := writer.points[0]
		assert.Equal(t, MeasurementConsumption, point.Name())
		assert.Equal(t, record.BillingPeriod, point.Time())
		require.Len(t, point.TagList(), 1)
		assert.Equal(t, record.CustomerID.String(), point.TagList()[0].Value)

		fields := map[string]interface{}{}
		for _, f := range point.FieldList() {
			fields[f.Key] = f.Value
		}
		assert.Equal(t, 250.0, fields["usage"])
		assert.Equal(t, record.ID.String(), fields["record_id"])
	})

	t.Run("propagates writer errors", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("influx down")}
		recorder := NewUsageRecorder(writer, nil)

		err := recorder.Handle(context.Background(), approvedRecord(t).GetDomainEvents()[0])
		assert.ErrorContains(t, err, "influx down")
	})

	t.Run("ignores events without a record snapshot", func(t *testing.T) {
		writer := &fakeWriter{}
		recorder := NewUsageRecorder(writer, nil)
		event := shared.NewChangeEvent(consumption.EventTypeConsumptionRecordApproved,
			consumption.AggregateTypeConsumptionRecord, uuid.New(), uuid.New(), "Approved", nil, "unexpected")

		assert.NoError(t, recorder.Handle(context.Background(), event))
		assert.Empty(t, writer.points)
	})

	t.Run("subscribes to approvals only", func(t *testing.T) {
		assert.Equal(t, []string{consumption.EventTypeConsumptionRecordApproved}, NewUsageRecorder(nil, nil).EventTypes())
	})
}
