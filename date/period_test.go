package date

import (
	"slices"
	"testing"
	"time"
)

func TestPeriodRange(t *testing.T) {
	testCases := []struct {
		name   string
		period Period
		in     Date
		want   Range
	}{
		{"daily", Daily, New(2025, time.September, 8), Range{New(2025, time.September, 8), New(2025, time.September, 8)}},
		{"weekly on a wednesday", Weekly, New(2025, time.September, 10), Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"weekly on a sunday", Weekly, New(2025, time.September, 14), Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"monthly leap", Monthly, New(2024, time.February, 10), Range{New(2024, time.February, 1), New(2024, time.February, 29)}},
		{"quarterly", Quarterly, New(2025, time.May, 15), Range{New(2025, time.April, 1), New(2025, time.June, 30)}},
		{"yearly", Yearly, New(2025, time.May, 15), Range{New(2025, time.January, 1), New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.period.Range(tc.in); got != tc.want {
				t.Errorf("%v.Range(%v) = %v, want %v", tc.period, tc.in, got, tc.want)
			}
			if p, ok := tc.want.Period(); !ok || p != tc.period {
				t.Errorf("%v.Period() = %v, %v, want %v, true", tc.want, p, ok, tc.period)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"month", "Monthly"} {
		if p, err := ParsePeriod(s); err != nil || p != Monthly {
			t.Errorf("ParsePeriod(%q) = %v, %v, want monthly", s, p, err)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("ParsePeriod(\"fortnight\") expected an error")
	}
}

func TestRangeHalfOpen(t *testing.T) {
	r := Monthly.Range(New(2024, time.January, 12))
	start, end := r.HalfOpen()
	if start != New(2024, time.January, 1) || end != New(2024, time.February, 1) {
		t.Errorf("HalfOpen() = %v, %v, want 2024-01-01, 2024-02-01", start, end)
	}
}

func TestRangePeriods(t *testing.T) {
	r := NewRange(New(2024, time.March, 31), New(2024, time.January, 15))
	var got []string
	for p := range r.Periods(Monthly) {
		got = append(got, p.Identifier())
	}
	want := []string{"2024-01", "2024-02", "2024-03"}
	if !slices.Equal(got, want) {
		t.Errorf("Periods(Monthly) = %v, want %v", got, want)
	}
}
