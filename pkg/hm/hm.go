// Package hm handles the "H:M" working-hour values timesheet rows carry.
// Hours and minutes are kept as separate non-negative integers; minutes are
// conventionally one of 0, 15, 30, 45 when produced by an editor, but parsed
// data is accepted as-is.
package hm

import (
	"fmt"
	"strconv"
	"strings"
)

// HM is an hour:minute pair.
type HM struct {
	Hours   int
	Minutes int
}

// Zero is the empty duration "0:0".
var Zero = HM{}

// Parse parses an "H:M" string. Malformed or negative input yields Zero
// rather than an error; historical rows contain plenty of junk and the
// original treated it all as zero hours.
func Parse(s string) HM {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return Zero
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || m < 0 {
		return Zero
	}
	return HM{Hours: h, Minutes: m}
}

// String renders the canonical "H:M" form.
func (v HM) String() string {
	return fmt.Sprintf("%d:%d", v.Hours, v.Minutes)
}

// FracHours converts to fractional hours (e.g. 4:30 -> 4.5).
func (v HM) FracHours() float64 {
	return float64(v.Hours) + float64(v.Minutes)/60
}

// IsZero reports whether the value is 0:0.
func (v HM) IsZero() bool {
	return v.Hours == 0 && v.Minutes == 0
}

// SnapMinutes rounds minutes down to the nearest quarter-hour option.
func (v HM) SnapMinutes() HM {
	v.Minutes = (v.Minutes / 15) * 15
	if v.Minutes > 45 {
		v.Minutes = 45
	}
	return v
}

// FromFracHours builds an HM from fractional hours, minutes snapped to
// quarter-hour options.
func FromFracHours(f float64) HM {
	if f <= 0 {
		return Zero
	}
	h := int(f)
	m := int((f - float64(h)) * 60)
	return HM{Hours: h, Minutes: m}.SnapMinutes()
}
