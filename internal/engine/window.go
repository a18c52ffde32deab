package engine

// dayOffsets returns {0} for windows within a single day, {0, 1440} when
// the request window spans past the first day, so day-local windows can be
// duplicated into absolute minutes across midnight.
func dayOffsets(reqWin Interval) []int {
	if reqWin.End > 1440 {
		return []int{0, 1440}
	}
	return []int{0}
}

func expandByOffsets(win Interval, offsets []int) []Interval {
	out := make([]Interval, 0, len(offsets))
	for _, d := range offsets {
		out = append(out, Interval{Start: win.Start + d, End: win.End + d})
	}
	return out
}

// startConstraintWindow computes the intersection of the request window,
// the business attention window, and the service attention window, each
// expanded by the day offsets needed for midnight crossover. A source that
// is absent is skipped from the intersection.
func startConstraintWindow(reqWin Interval, businessWin, serviceAttnWin *Interval) []Interval {
	offsets := dayOffsets(reqWin)
	result := []Interval{reqWin}

	if businessWin != nil {
		result = Intersect(result, expandByOffsets(*businessWin, offsets))
	}
	if serviceAttnWin != nil {
		result = Intersect(result, expandByOffsets(*serviceAttnWin, offsets))
	}
	return result
}
