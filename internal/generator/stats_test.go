package generator_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dleiva04/arq-big-data2/internal/generator"
)

func TestStatsReport_Empty(t *testing.T) {
	stats := generator.NewStats(time.Now())

	// created = 0: ставки нулевые, деления на ноль нет.
	report := stats.Report(0, 0)
	if report.Created != 0 || report.Shipped != 0 || report.Cancelled != 0 || report.StatusUpdates != 0 {
		t.Fatalf("expected all-zero report, got %+v", report)
	}
	if report.SuccessRate != 0 || report.CancellationRate != 0 || report.OrdersPerMinute != 0 {
		t.Fatalf("expected zero rates, got %+v", report)
	}
}

func TestStatsReport_Rates(t *testing.T) {
	stats := generator.NewStats(time.Now())

	for i := 0; i < 10; i++ {
		stats.OrderCreated()
	}
	for i := 0; i < 6; i++ {
		stats.OrderShipped()
	}
	for i := 0; i < 2; i++ {
		stats.OrderCancelled()
	}
	for i := 0; i < 20; i++ {
		stats.StatusUpdated()
	}
	stats.DispatchFailed(3)

	report := stats.Report(2, 2*time.Minute)

	if report.SuccessRate != 0.6 {
		t.Fatalf("expected success rate 0.6, got %v", report.SuccessRate)
	}
	if report.CancellationRate != 0.2 {
		t.Fatalf("expected cancellation rate 0.2, got %v", report.CancellationRate)
	}
	// created = shipped + cancelled + active — ровно.
	if report.Created != report.Shipped+report.Cancelled+report.ActiveAtCutoff {
		t.Fatalf("conservation violated: %+v", report)
	}
	if report.SuccessRate+report.CancellationRate > 1 {
		t.Fatalf("rates exceed 1: %+v", report)
	}
	if report.OrdersPerMinute != 5 {
		t.Fatalf("expected 5 orders/minute, got %v", report.OrdersPerMinute)
	}
	if report.DispatchFailures != 3 {
		t.Fatalf("expected 3 dispatch failures, got %d", report.DispatchFailures)
	}
}

func TestReportString(t *testing.T) {
	stats := generator.NewStats(time.Now())
	stats.OrderCreated()
	stats.OrderShipped()

	text := stats.Report(0, time.Minute).String()
	for _, want := range []string{
		"Total new orders created: 1",
		"Total orders shipped: 1",
		"Success rate: 100.0%",
		"Average rate: 1.00 new orders per minute",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("report text missing %q:\n%s", want, text)
		}
	}
}
