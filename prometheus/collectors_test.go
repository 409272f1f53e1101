package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hdbdrv/hdb"
)

func TestConnectorCollectorDescribe(t *testing.T) {
	c := NewConnectorCollector(hdb.NewBasicAuthConnector("host", 30015, "u", "p"), "mydb")
	ch := make(chan *prometheus.Desc, 8)
	c.Describe(ch)
	close(ch)
	n := 0
	for range ch {
		n++
	}
	if n != 4 {
		t.Fatalf("got %d descriptors, want 4", n)
	}
}

func TestConnectorCollectorCollectWithNoOpenConnections(t *testing.T) {
	c := NewConnectorCollector(hdb.NewBasicAuthConnector("host", 30015, "u", "p"), "mydb")
	ch := make(chan prometheus.Metric, 8)
	c.Collect(ch)
	close(ch)
	n := 0
	for range ch {
		n++
	}
	if n != 4 {
		t.Fatalf("got %d metrics, want 4", n)
	}
}
