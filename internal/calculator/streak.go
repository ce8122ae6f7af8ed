package calculator

// Sign maps v to -1, 0 or +1.
func Sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Streak returns the signed length of the trailing run of identical directions.
// Directions are -1, 0 or +1; a trailing flat run and an empty input both yield 0.
func Streak(dirs []int) int {
	n := len(dirs)
	if n == 0 {
		return 0
	}
	last := dirs[n-1]
	if last == 0 {
		return 0
	}
	count := 0
	for i := n - 1; i >= 0 && dirs[i] == last; i-- {
		count++
	}
	if last > 0 {
		return count
	}
	return -count
}

// BoolStreak is Streak over up (true) / down (false) flags.
func BoolStreak(flags []bool) int {
	dirs := make([]int, len(flags))
	for i, up := range flags {
		if up {
			dirs[i] = 1
		} else {
			dirs[i] = -1
		}
	}
	return Streak(dirs)
}
