package ids

import (
	"testing"
	"time"
)

func TestNewIsOrdered(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Millisecond)
	t3 := t1.Add(time.Hour)

	id1 := New(t1)
	id2 := New(t2)
	id3 := New(t3)

	if !(id1 < id2 && id2 < id3) {
		t.Errorf("ids not ordered: %q %q %q", id1, id2, id3)
	}
}

func TestNewLength(t *testing.T) {
	id := New(time.Now())
	if len(id) != timeLen+noiseLen {
		t.Errorf("expected %d chars, got %d (%q)", timeLen+noiseLen, len(id), id)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	want := time.Date(2024, 6, 15, 9, 30, 45, 123000000, time.UTC)
	got, err := Time(New(want))
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTimeInvalid(t *testing.T) {
	for _, id := range []string{"", "short", "!!!!!!!!xx"} {
		if _, err := Time(id); err == nil {
			t.Errorf("expected error for %q", id)
		}
	}
}
