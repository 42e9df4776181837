// Package timeseries mirrors approved consumption into InfluxDB for usage
// dashboards.
package timeseries

import (
	"context"
	"fmt"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/config"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

// MeasurementConsumption is the measurement name of approved usage points
const MeasurementConsumption = "water_consumption"

// PointWriter writes points synchronously. api.WriteAPIBlocking satisfies it.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// UsageRecorder writes one point per approved consumption record
type UsageRecorder struct {
	writer PointWriter
	logger *zap.Logger
}

// NewUsageRecorder creates a UsageRecorder
func NewUsageRecorder(writer PointWriter, logger *zap.Logger) *UsageRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageRecorder{writer: writer, logger: logger}
}

// NewInfluxClient connects to InfluxDB and verifies it is healthy
func NewInfluxClient(ctx context.Context, cfg config.InfluxDBConfig) (influxdb2.Client, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	return client, nil
}

// Handle records the approved reading. Events without a record snapshot are ignored.
func (r *UsageRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	audited, ok := event.(shared.AuditedEvent)
	if !ok {
		return nil
	}
	snapshot, ok := audited.After().(consumption.RecordSnapshot)
	if !ok {
		r.logger.Warn("Approved consumption event carries no record snapshot",
			zap.String("event_id", event.EventID().String()))
		return nil
	}

	point := NewUsagePoint(snapshot)
	if err := r.writer.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write usage point for record %s: %w", snapshot.ID, err)
	}
	r.logger.Debug("Usage point written",
		zap.String("record_id", snapshot.ID.String()),
		zap.String("usage", snapshot.Usage.String()),
	)
	return nil
}

// EventTypes returns the approval event only
func (r *UsageRecorder) EventTypes() []string {
	return []string{consumption.EventTypeConsumptionRecordApproved}
}

// NewUsagePoint builds the point for a consumption record, stamped at its
// billing period
func NewUsagePoint(snapshot consumption.RecordSnapshot) *write.Point {
	return write.NewPoint(
		MeasurementConsumption,
		map[string]string{
			"customer_id": snapshot.CustomerID.String(),
		},
		map[string]interface{}{
			"usage":            snapshot.Usage.InexactFloat64(),
			"current_reading":  snapshot.CurrentReading.InexactFloat64(),
			"previous_reading": snapshot.PreviousReading.InexactFloat64(),
			"record_id":        snapshot.ID.String(),
		},
		snapshot.BillingPeriod,
	)
}
