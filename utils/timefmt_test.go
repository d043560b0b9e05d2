package utils

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"nine", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{575, "09:35"},
		{1439, "23:59"},
	}
	for _, tc := range tests {
		if got := FormatClock(tc.in); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, m := range []int{0, 15, 540, 719, 1425} {
		parsed, err := ParseClock(FormatClock(m))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", m, err)
		}
		if parsed != m {
			t.Fatalf("round trip of %d gave %d", m, parsed)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-09")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("2026-03-09 should be a Monday, got %s", d.Weekday())
	}

	for _, bad := range []string{"", "09-03-2026", "2026-13-01", "2026-02-30", "2026-3-9"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestCombineDateAndMinute(t *testing.T) {
	got, err := CombineDateAndMinute("2026-03-09", 570, time.UTC)
	if err != nil {
		t.Fatalf("CombineDateAndMinute failed: %v", err)
	}
	want := time.Date(2026, time.March, 9, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := CombineDateAndMinute("not-a-date", 570, time.UTC); err == nil {
		t.Fatal("expected error for invalid date")
	}
}
