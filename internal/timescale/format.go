package timescale

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const julianYear = 365.25 * day

// FormatElapsed renders simulated seconds as years, days and a clock.
// Negative and non-finite input reads as zero.
func FormatElapsed(sec float64) string {
	if !(sec > 0) || math.IsInf(sec, 0) {
		sec = 0
	}
	years := math.Floor(sec / julianYear)
	sec -= years * julianYear
	days := math.Floor(sec / day)
	sec -= days * day
	t := int64(sec)
	clock := fmt.Sprintf("%02d:%02d:%02d", t/3600, t%3600/60, t%60)

	switch {
	case years > 0:
		return fmt.Sprintf("%sy %dd %s", humanize.Comma(int64(years)), int64(days), clock)
	case days > 0:
		return fmt.Sprintf("%dd %s", int64(days), clock)
	}
	return clock
}
