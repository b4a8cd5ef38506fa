// ABOUTME: Quiet hours gate deciding whether posting is suppressed right now.
// ABOUTME: Pure function of the hour of day; supports windows that wrap midnight.
package gate

// IsQuiet reports whether the given hour falls inside the quiet window
// [startHour, endHour). A window that wraps past midnight (start > end) is
// quiet from start through 23 and from 0 up to end. Equal start and end is a
// zero-width window, treated as disabled.
func IsQuiet(startHour, endHour, hour int) bool {
	switch {
	case startHour == endHour:
		return false
	case startHour < endHour:
		return startHour <= hour && hour < endHour
	default:
		return hour >= startHour || hour < endHour
	}
}
