// Package engine implements the multi-resource appointment availability,
// reservation, and blocking-cascade core.
package engine

import "sort"

// Interval is a half-open minute range [Start, End) on the continuous
// minute axis anchored at a request's baseMidnight. Zero value is invalid;
// construct via NewInterval.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds an Interval, panicking if End <= Start. Callers at
// the domain boundary should validate ranges themselves and never rely on
// this panic for control flow.
func NewInterval(start, end int) Interval {
	if end <= start {
		panic("engine: invalid interval, end <= start")
	}
	return Interval{Start: start, End: end}
}

func (iv Interval) overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Normalize sorts a list of intervals by start and merges runs that touch
// or overlap (c <= b counts as touching).
func Normalize(list []Interval) []Interval {
	if len(list) == 0 {
		return nil
	}
	cp := make([]Interval, len(list))
	copy(cp, list)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].Start != cp[j].Start {
			return cp[i].Start < cp[j].Start
		}
		return cp[i].End < cp[j].End
	})

	merged := make([]Interval, 0, len(cp))
	merged = append(merged, cp[0])
	for _, iv := range cp[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Intersect returns the normalized intersection of two normalized interval
// lists via a two-pointer sweep, advancing whichever interval ends first.
func Intersect(a, b []Interval) []Interval {
	a = Normalize(a)
	b = Normalize(b)

	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := max(a[i].Start, b[j].Start)
		hi := min(a[i].End, b[j].End)
		if lo < hi {
			out = append(out, Interval{Start: lo, End: hi})
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return Normalize(out)
}

// Subtract returns base \ union(occupied), normalized.
func Subtract(base, occupied []Interval) []Interval {
	base = Normalize(base)
	occupied = Normalize(occupied)

	var out []Interval
	j := 0
	for _, b := range base {
		cursor := b.Start
		k := j
		for k < len(occupied) && occupied[k].End <= b.Start {
			k++
		}
		for k < len(occupied) && occupied[k].Start < b.End {
			o := occupied[k]
			if o.Start > cursor {
				out = append(out, Interval{Start: cursor, End: min(o.Start, b.End)})
			}
			if o.End > cursor {
				cursor = o.End
			}
			if cursor >= b.End {
				break
			}
			k++
		}
		if cursor < b.End {
			out = append(out, Interval{Start: cursor, End: b.End})
		}
	}
	return Normalize(out)
}

// PackSlots enumerates candidate pre-start minutes: the first instant of a
// buffered slot of length totalSlot, discretized by totalSlot stride within
// each free interval, such that the service-start (pre-start + bufBefore)
// falls strictly inside startConstraint.
func PackSlots(startConstraint Interval, free []Interval, totalSlot, bufBefore int) []int {
	var preStarts []int
	for _, f := range free {
		start := f.Start
		if startConstraint.Start-bufBefore > start {
			start = startConstraint.Start - bufBefore
		}
		for start+totalSlot <= f.End {
			serviceStart := start + bufBefore
			if serviceStart >= startConstraint.Start && serviceStart < startConstraint.End {
				preStarts = append(preStarts, start)
			}
			start += totalSlot
		}
	}
	return preStarts
}
