package progress

import "strconv"

// minutes of ETA per remaining step
const etaStepMinutes = 2

// Coarse returns the percentage published when step i of total is entered
func Coarse(i, total int) int {
	if total <= 0 {
		return 0
	}
	return clamp((i + 1) * 100 / total)
}

// Fine returns the percentage after done of intervals sub-intervals of step i.
// Integer math gives the exact floor of ((i + done/intervals) / total) * 100.
func Fine(i, done, intervals, total int) int {
	if total <= 0 || intervals <= 0 {
		return 0
	}
	return clamp((i*intervals + done) * 100 / (intervals * total))
}

// ETA returns remaining time text for step i of total, "" if no steps remain
func ETA(i, total int) string {
	left := total - i - 1
	if left <= 0 {
		return ""
	}
	return strconv.Itoa(left*etaStepMinutes) + "m"
}

// Forward returns the larger value, so progress never goes back
func Forward(current, next int) int {
	if next < current {
		return current
	}
	return next
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
