package timestamp

import (
	"errors"
	"regexp"
	"time"
)

// Layout is the fixed timestamp layout emitted by the macro.
const Layout = "2006-01-02 15:04:05.000"

// ErrNoSeedTimestamp is returned when the first line of a log carries no parseable timestamp.
var ErrNoSeedTimestamp = errors.New("first line has no timestamp")

var pattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}`)

// Extractor parses timestamps from log lines and remembers the last one that parsed.
// A zero Extractor is unseeded; call Seed with the first line before Extract.
type Extractor struct {
	// Location the zone-less timestamps are read in. Nil means UTC.
	Location *time.Location

	origin   time.Time
	fallback time.Time
	seeded   bool
	misses   int
}

// Parse finds and parses the first timestamp in a line as UTC.
func Parse(line string) (time.Time, bool) {
	return ParseIn(line, time.UTC)
}

// ParseIn is Parse in the given location.
func ParseIn(line string, loc *time.Location) (time.Time, bool) {
	raw := pattern.FindString(line)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	ts, err := time.ParseInLocation(Layout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Seed sets the origin and the fallback from the first line of the log.
func (e *Extractor) Seed(line string) error {
	ts, ok := ParseIn(line, e.Location)
	if !ok {
		return ErrNoSeedTimestamp
	}
	e.origin = ts
	e.fallback = ts
	e.seeded = true
	return nil
}

// Seeded reports whether Seed succeeded.
func (e *Extractor) Seeded() bool {
	return e.seeded
}

// Extract returns the timestamp of the line. Lines without a valid timestamp get the most
// recent good one and leave it unchanged.
func (e *Extractor) Extract(line string) time.Time {
	ts, ok := ParseIn(line, e.Location)
	if !ok {
		e.misses++
		return e.fallback
	}
	e.fallback = ts
	return ts
}

// Offset converts a timestamp to seconds since the origin.
func (e *Extractor) Offset(ts time.Time) float64 {
	return ts.Sub(e.origin).Seconds()
}

// Origin returns the first timestamp of the log.
func (e *Extractor) Origin() time.Time {
	return e.origin
}

// Latest returns the most recent successfully parsed timestamp.
func (e *Extractor) Latest() time.Time {
	return e.fallback
}

// Misses counts lines that fell back to a previous timestamp.
func (e *Extractor) Misses() int {
	return e.misses
}
