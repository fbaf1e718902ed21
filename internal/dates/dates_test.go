package dates

import (
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-01-01", true},
		{"2024-12-31", true},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024-1-1", false},
		{"20240101", false},
		{"yesterday", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDate(tt.input); got != tt.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDayBounds(t *testing.T) {
	mid := time.Date(2024, 1, 1, 13, 45, 12, 500, time.UTC)

	start := StartOfDay(mid)
	if start != time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("StartOfDay = %v", start)
	}

	end := EndOfDay(mid)
	if end != time.Date(2024, 1, 1, 23, 59, 59, 999000000, time.UTC) {
		t.Errorf("EndOfDay = %v", end)
	}
}
