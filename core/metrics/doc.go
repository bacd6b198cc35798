// Package metrics defines the events recorded while planning deliveries and
// the sink interfaces that persist them. Sinks like PromSink and InfluxSink
// implement MetricsSink plus any of the optional recorder interfaces and can
// be combined with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package metrics
