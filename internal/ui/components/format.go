package components

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as H:MM:SS.ss, truncating to hundredths.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hundredths := int64(d / (10 * time.Millisecond))
	h := hundredths / 360000
	m := hundredths / 6000 % 60
	s := hundredths / 100 % 60
	cs := hundredths % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// FormatSpeed renders a planar speed in course units per second.
func FormatSpeed(v float64) string {
	return fmt.Sprintf("%.4f u/s", v)
}
