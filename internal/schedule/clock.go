package schedule

import "time"

// TargetInstant resolves hour:minute wall-clock time in loc, on the calendar
// date that now falls on in loc, to an absolute instant. time.Date looks up
// the zone's UTC offset for that specific date, so daylight-saving shifts
// are accounted for without a fixed offset constant.
func TargetInstant(now time.Time, loc *time.Location, hour, minute int) time.Time {
	year, month, day := now.In(loc).Date()
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// DateLabel renders now's calendar date in loc as a short human-readable
// suffix for spawned occurrence titles, e.g. "Nov 5, 2025".
func DateLabel(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("Jan 2, 2006")
}
