package booking

import (
	"sort"
	"time"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

// DateSet is a day-granularity set of calendar dates a picker must disable.
type DateSet map[Date]struct{}

// Contains reports whether the date is in the set.
func (s DateSet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// Dates returns the set's members in ascending order.
func (s DateSet) Dates() []Date {
	out := make([]Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Strings returns the set's members as sorted yyyy-mm-dd strings.
func (s DateSet) Strings() []string {
	dates := s.Dates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

// DisabledDates materializes the backend's booked windows into individual
// calendar dates, enumerating each window inclusive of both ends. Overlapping
// or adjacent windows merge naturally via set union. Malformed windows are
// skipped: availability is advisory, and the backend's conflict check remains
// authoritative at submission.
func DisabledDates(windows []domain.BookedWindow) DateSet {
	set := make(DateSet)
	for _, w := range windows {
		start, err := ParseDate(w.StartDate)
		if err != nil {
			logger.Warn("Skipping booked window with bad start date", "start_date", w.StartDate, "error", err)
			continue
		}
		end, err := ParseDate(w.EndDate)
		if err != nil {
			logger.Warn("Skipping booked window with bad end date", "end_date", w.EndDate, "error", err)
			continue
		}
		if end.Before(start) {
			continue
		}
		for d := start; !d.After(end); d = d.Next() {
			set[d] = struct{}{}
		}
	}
	return set
}

// Disabled reports whether a date must be unavailable for selection: any
// member of the set, plus every date strictly before today.
func Disabled(d Date, today Date, set DateSet) bool {
	return d.Before(today) || set.Contains(d)
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}
