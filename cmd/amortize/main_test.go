package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/shopspring/decimal"
)

func TestRenderSchedule(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	schedule, err := ledger.AmortizationSchedule(decimal.NewFromInt(12000), decimal.NewFromInt(6), 12, start)
	if err != nil {
		t.Fatalf("Failed to build schedule: %v", err)
	}

	var buf bytes.Buffer
	renderSchedule(&buf, schedule)
	out := buf.String()

	for _, want := range []string{"PERIOD", "PRINCIPAL", "2024-01-15", "1032.80", "972.80", "60.00", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 12 {
		t.Errorf("Expected at least 12 lines, got %d", lines)
	}
}
