package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewOrderMetrics(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if m.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if m.ordersRejected == nil {
		t.Error("ordersRejected counter should not be nil")
	}
	if m.statusChanges == nil {
		t.Error("statusChanges counter vec should not be nil")
	}
	if m.paymentsConfirmed == nil {
		t.Error("paymentsConfirmed counter should not be nil")
	}
	if m.paymentSessions == nil {
		t.Error("paymentSessions counter vec should not be nil")
	}
	if m.operationDuration == nil {
		t.Error("operationDuration histogram vec should not be nil")
	}
}

func TestNewOrderMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	first.RecordOrderCreated()
	second.RecordOrderCreated()

	if got := counterValue(t, first.ordersCreated); got != 2.0 {
		t.Fatalf("expected shared counter value 2, got %f", got)
	}
}

func TestRecordCounters(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderCreated()
	m.RecordOrderRejected()
	m.RecordOrderRejected()
	m.RecordPaymentConfirmed()
	m.RecordStatusChange("DELIVERED")
	m.RecordPaymentSession(ResultError)

	if got := counterValue(t, m.ordersCreated); got != 1.0 {
		t.Errorf("expected created 1, got %f", got)
	}
	if got := counterValue(t, m.ordersRejected); got != 2.0 {
		t.Errorf("expected rejected 2, got %f", got)
	}
	if got := counterValue(t, m.paymentsConfirmed); got != 1.0 {
		t.Errorf("expected confirmed 1, got %f", got)
	}
	if got := counterValue(t, m.statusChanges.WithLabelValues("DELIVERED")); got != 1.0 {
		t.Errorf("expected one DELIVERED change, got %f", got)
	}
	if got := counterValue(t, m.paymentSessions.WithLabelValues(ResultError)); got != 1.0 {
		t.Errorf("expected one failed session, got %f", got)
	}
}

func TestRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetricsWithRegisterer(reg)

	m.RecordOperation("create", nil, 10*time.Millisecond)
	m.RecordOperation("create", errors.New("boom"), 20*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	var samples uint64
	for _, family := range families {
		if family.GetName() != "orders_operation_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			samples += metric.GetHistogram().GetSampleCount()
		}
	}
	if samples != 2 {
		t.Fatalf("expected 2 observations, got %d", samples)
	}
}
