package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "avnu_catalog_products" {
			found = true
		}
	}
	if !found {
		t.Fatalf("avnu_catalog_products not registered")
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(OverlayWritesTotal.WithLabelValues("cart"))
	OverlayWritesTotal.WithLabelValues("cart").Inc()
	if got := testutil.ToFloat64(OverlayWritesTotal.WithLabelValues("cart")); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
