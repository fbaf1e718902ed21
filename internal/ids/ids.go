// Package ids generates time-ordered object identifiers.
//
// IDs are 10 lower-case base36 characters: 8 encoding milliseconds
// since 2000-01-01 UTC, 2 of random noise. Lexicographic order over
// IDs therefore matches creation order, which is what since/until
// cursor pagination compares against.
package ids

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// epoch is 2000-01-01T00:00:00Z in unix milliseconds.
const epoch = 946684800000

const timeLen = 8
const noiseLen = 2

// New generates an ID for the given creation time.
func New(t time.Time) string {
	ms := t.UnixMilli() - epoch
	if ms < 0 {
		ms = 0
	}
	return pad36(ms, timeLen) + noise()
}

// Time extracts the creation time encoded in an ID.
func Time(id string) (time.Time, error) {
	if len(id) < timeLen {
		return time.Time{}, fmt.Errorf("invalid id: %q", id)
	}
	ms, err := strconv.ParseInt(id[:timeLen], 36, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid id: %q", id)
	}
	return time.UnixMilli(ms + epoch).UTC(), nil
}

func pad36(n int64, width int) string {
	s := strconv.FormatInt(n, 36)
	if len(s) > width {
		// Timestamp overflow (year 2089+); keep the most significant
		// digits so ordering degrades rather than breaks.
		return s[:width]
	}
	return strings.Repeat("0", width-len(s)) + s
}

func noise() string {
	max := big.NewInt(36 * 36)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "00"
	}
	return pad36(n.Int64(), noiseLen)
}
