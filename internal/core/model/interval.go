package model

// Interval is an active phase measured in seconds since the first timestamp of the log.
//
// Duration is only meaningful when Open is false. Marker intervals have no duration at all and
// are drawn as zero-width ticks. Truncated intervals were cut short because the same
// (type, task) started again before an end line was seen.
type Interval struct {
	Start     float64 `json:"start" msgpack:"start"`
	Duration  float64 `json:"duration" msgpack:"duration"`
	Open      bool    `json:"open,omitempty" msgpack:"open,omitempty"`
	Marker    bool    `json:"marker,omitempty" msgpack:"marker,omitempty"`
	Truncated bool    `json:"truncated,omitempty" msgpack:"truncated,omitempty"`
	Line      int     `json:"line" msgpack:"line"`
}

// End returns the end offset of the interval. Open intervals extend to the end of the
// observed window.
func (iv Interval) End(window float64) float64 {
	if iv.Open {
		if window < iv.Start {
			return iv.Start
		}
		return window
	}
	return iv.Start + iv.Duration
}

// Span returns the drawable length of the interval within the window.
func (iv Interval) Span(window float64) float64 {
	return iv.End(window) - iv.Start
}
