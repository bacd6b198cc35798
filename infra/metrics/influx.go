package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/seaplane/core/metrics"
	"github.com/kilianp07/seaplane/infra/logger"
)

// InfluxSink writes planner events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordValidation writes a capacity validation point.
func (s *InfluxSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	p := write.NewPointWithMeasurement("capacity_validation").
		AddTag("session_id", ev.SessionID).
		AddTag("outcome", ev.Outcome).
		AddTag("component", "planner")
	if ev.Vehicle != "" {
		p = p.AddTag("vehicle", ev.Vehicle)
	}
	p = p.AddField("crates", ev.Crates).
		AddField("orders", ev.Orders).
		AddField("capacity", ev.Capacity).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordSubmission writes a delivery submission point.
func (s *InfluxSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	p := write.NewPointWithMeasurement("delivery_submission").
		AddTag("session_id", ev.SessionID).
		AddTag("vehicle", ev.Vehicle).
		AddTag("resolved", strconv.FormatBool(ev.Resolved)).
		AddTag("component", "planner")
	if ev.DeliveryID != "" {
		p = p.AddTag("delivery_id", ev.DeliveryID)
	}
	p = p.AddField("orders", ev.Orders).
		AddField("latency_ms", round3(ev.Latency.Seconds()*1000)).
		AddField("distance_km", round3(ev.DistanceKm)).
		AddField("duration_hours", round3(ev.DurationHours)).
		AddField("errors", ev.Error).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordDataLoad writes a registry load point.
func (s *InfluxSink) RecordDataLoad(ev coremetrics.DataLoadEvent) error {
	p := write.NewPointWithMeasurement("registry_load").
		AddTag("category", ev.Category).
		AddTag("component", "planner").
		AddField("count", ev.Count).
		AddField("clusters", ev.Clusters).
		AddField("unlocated", ev.Unlocated).
		SetTime(ev.Time)
	return s.write(p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
