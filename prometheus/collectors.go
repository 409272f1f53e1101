// Package prometheus exports hdb connection statistics as Prometheus
// metrics, mirroring go-hdb's driver/prometheus/collectors package.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hdbdrv/hdb"
)

const namespace = "hdb"

type collector struct {
	c *hdb.Connector

	openConnections *prometheus.Desc
	requests        *prometheus.Desc
	bytesRead       *prometheus.Desc
	bytesWritten    *prometheus.Desc
}

// NewConnectorCollector returns a prometheus.Collector exporting aggregate
// connection counts and traffic counters for every live connection opened
// through c (§4.7 connection statistics).
func NewConnectorCollector(c *hdb.Connector, dbName string) prometheus.Collector {
	labels := prometheus.Labels{"db_name": dbName}
	fqName := func(name string) string { return namespace + "_connector_" + name }
	return &collector{
		c: c,
		openConnections: prometheus.NewDesc(
			fqName("open_connections"),
			"The number of established connections.",
			nil, labels,
		),
		requests: prometheus.NewDesc(
			fqName("requests_total"),
			"The total number of request/reply round trips sent.",
			nil, labels,
		),
		bytesRead: prometheus.NewDesc(
			fqName("bytes_read_total"),
			"The total bytes read from the connection.",
			nil, labels,
		),
		bytesWritten: prometheus.NewDesc(
			fqName("bytes_written_total"),
			"The total bytes written to the connection.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openConnections
	ch <- c.requests
	ch <- c.bytesRead
	ch <- c.bytesWritten
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.c.Stats()
	ch <- prometheus.MustNewConstMetric(c.openConnections, prometheus.GaugeValue, float64(stats.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(stats.Requests))
	ch <- prometheus.MustNewConstMetric(c.bytesRead, prometheus.CounterValue, float64(stats.BytesReceived))
	ch <- prometheus.MustNewConstMetric(c.bytesWritten, prometheus.CounterValue, float64(stats.BytesSent))
}
