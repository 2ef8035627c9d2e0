package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGenerateEvenSplit(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	entries, err := Generate(decimal.RequireFromString("1200.00"), 4, start, 15)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 installments got %d", len(entries))
	}
	want := []string{"2025-01-15", "2025-02-15", "2025-03-15", "2025-04-15"}
	for i, e := range entries {
		if e.Number != i+1 {
			t.Fatalf("installment %d has number %d", i, e.Number)
		}
		if got := e.DueDate.Format("2006-01-02"); got != want[i] {
			t.Fatalf("installment %d due %s want %s", e.Number, got, want[i])
		}
		if !e.Amount.Equal(decimal.RequireFromString("300.00")) {
			t.Fatalf("installment %d amount %s want 300.00", e.Number, e.Amount)
		}
	}
}

func TestGenerateRemainderOnLast(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	entries, err := Generate(decimal.RequireFromString("100.00"), 3, start, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"33.33", "33.33", "33.34"}
	for i, e := range entries {
		if e.Amount.String() != want[i] {
			t.Fatalf("installment %d amount %s want %s", e.Number, e.Amount, want[i])
		}
	}
}

func TestGenerateSumReconcilesForAllCounts(t *testing.T) {
	start := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	totals := []string{"1.00", "99.99", "1234.56", "10000.01"}
	for _, ts := range totals {
		total := decimal.RequireFromString(ts)
		for count := 1; count <= 60; count++ {
			entries, err := Generate(total, count, start, 10)
			if err != nil {
				if errors.Is(err, ErrInvalidInput) {
					// counts exceeding available cents are rejected, not split
					continue
				}
				t.Fatalf("total=%s count=%d: %v", ts, count, err)
			}
			sum := decimal.Zero
			for _, e := range entries {
				sum = sum.Add(e.Amount)
			}
			if !sum.Equal(total) {
				t.Fatalf("total=%s count=%d sum=%s", ts, count, sum)
			}
		}
	}
}

func TestGenerateNumbersContiguous(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	entries, err := Generate(decimal.RequireFromString("500.00"), 14, start, 31)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, e := range entries {
		if e.Number != i+1 {
			t.Fatalf("expected contiguous numbers, got %d at index %d", e.Number, i)
		}
	}
}

func TestGenerateSpansYearBoundary(t *testing.T) {
	// 14 installments from January must land the last one in February of the
	// next year without drifting the due day.
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	entries, err := Generate(decimal.RequireFromString("1400.00"), 14, start, 31)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	last := entries[13].DueDate
	if last.Year() != 2026 || last.Month() != time.February || last.Day() != 28 {
		t.Fatalf("expected last due 2026-02-28 got %s", last.Format("2006-01-02"))
	}
	// installment 2 must be February 2025, not March (the add-one-month-to-Jan-31 bug)
	if entries[1].DueDate.Month() != time.February || entries[1].DueDate.Year() != 2025 {
		t.Fatalf("expected second due in 2025-02 got %s", entries[1].DueDate.Format("2006-01-02"))
	}
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		total string
		count int
		day   int
		want  error
	}{
		{"zero count", "100.00", 0, 15, ErrInvalidInput},
		{"negative count", "100.00", -3, 15, ErrInvalidInput},
		{"zero total", "0.00", 3, 15, ErrInvalidInput},
		{"negative total", "-10.00", 3, 15, ErrInvalidInput},
		{"count exceeds cents", "0.05", 100, 15, ErrInvalidInput},
		{"due day zero", "100.00", 3, 0, ErrInvalidReference},
		{"due day too large", "100.00", 3, 32, ErrInvalidReference},
	}
	for _, tc := range cases {
		_, err := Generate(decimal.RequireFromString(tc.total), tc.count, start, tc.day)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, err)
		}
	}
	if _, err := Generate(decimal.RequireFromString("100.00"), 3, time.Time{}, 15); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero start date got %v", err)
	}
}

func TestGenerateSingleInstallment(t *testing.T) {
	start := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	entries, err := Generate(decimal.RequireFromString("49.90"), 1, start, 8)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(entries) != 1 || !entries[0].Amount.Equal(decimal.RequireFromString("49.90")) {
		t.Fatalf("unexpected schedule %+v", entries)
	}
	if got := entries[0].DueDate.Format("2006-01-02"); got != "2025-11-08" {
		t.Fatalf("expected 2025-11-08 got %s", got)
	}
}
