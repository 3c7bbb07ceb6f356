package domain

import (
	"fmt"
	"time"
)

const fridayStartHour = 5

// EditionWindow bounds the time range an edition pulls stories from.
type EditionWindow struct {
	Since time.Time
	Until time.Time
	Note  string
}

// Hours returns the window length rounded down to whole hours.
func (w EditionWindow) Hours() int {
	return int(w.Until.Sub(w.Since).Hours())
}

// Contains reports whether a publish timestamp falls inside the window.
// Zero timestamps pass; many feeds omit publish dates and dropping those
// stories is worse than including them.
func (w EditionWindow) Contains(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return !t.Before(w.Since) && !t.After(w.Until)
}

// WindowFor computes the edition window for the given moment.
// Monday editions cover everything since Friday 5am (weekend news),
// Tuesday-Thursday editions cover the last 36 hours, and off-schedule days
// fall back to 24 hours.
func WindowFor(now time.Time) EditionWindow {
	switch now.Weekday() {
	case time.Monday:
		friday := now.AddDate(0, 0, -3)
		since := time.Date(friday.Year(), friday.Month(), friday.Day(), fridayStartHour, 0, 0, 0, now.Location())
		return EditionWindow{
			Since: since,
			Until: now,
			Note:  fmt.Sprintf("Monday edition: covering Friday %dam through now", fridayStartHour),
		}
	case time.Tuesday, time.Wednesday, time.Thursday:
		return EditionWindow{
			Since: now.Add(-36 * time.Hour),
			Until: now,
			Note:  fmt.Sprintf("%s edition: last 36 hours", now.Weekday()),
		}
	default:
		return EditionWindow{
			Since: now.Add(-24 * time.Hour),
			Until: now,
			Note:  fmt.Sprintf("%s: not a normal publish day (using 24 hours)", now.Weekday()),
		}
	}
}

// WindowForHours overrides the weekday schedule with an explicit look-back.
func WindowForHours(now time.Time, hours int) EditionWindow {
	return EditionWindow{
		Since: now.Add(-time.Duration(hours) * time.Hour),
		Until: now,
		Note:  fmt.Sprintf("custom window: last %d hours", hours),
	}
}

// IsPublishDay reports whether the roundup normally goes out on this weekday.
func IsPublishDay(now time.Time) bool {
	switch now.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return true
	}
	return false
}
