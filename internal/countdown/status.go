package countdown

import "time"

// Distance is a calendar-aware breakdown of the span between two
// instants. 90 minutes decomposes to 1 hour 30 minutes, and month and
// year boundaries follow real calendar lengths rather than fixed
// seconds-per-unit division.
type Distance struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Status is the derived countdown state for a single tick. It is
// recomputed every tick and never mutated directly.
type Status struct {
	IsOverdue bool
	Distance  Distance
}

// Between decomposes the interval between a and b. Argument order does
// not matter; the result is always a non-negative magnitude.
func Between(a, b time.Time) Distance {
	if b.Before(a) {
		a, b = b, a
	}

	var d Distance
	cur := a
	for !addMonthsClamped(cur, 12).After(b) {
		cur = addMonthsClamped(cur, 12)
		d.Years++
	}
	for !addMonthsClamped(cur, 1).After(b) {
		cur = addMonthsClamped(cur, 1)
		d.Months++
	}
	for !cur.AddDate(0, 0, 1).After(b) {
		cur = cur.AddDate(0, 0, 1)
		d.Days++
	}

	rest := b.Sub(cur)
	d.Hours = int(rest / time.Hour)
	rest -= time.Duration(d.Hours) * time.Hour
	d.Minutes = int(rest / time.Minute)
	rest -= time.Duration(d.Minutes) * time.Minute
	d.Seconds = int(rest / time.Second)

	return d
}

// addMonthsClamped adds months to t, clamping the day of month to the
// target month's length (Jan 31 plus one month is Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	target := time.Date(year, month+time.Month(months), 1, hour, minute, sec, t.Nanosecond(), t.Location())
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StatusAt derives the countdown status at now. The due instant is the
// last completion plus the repeat frequency; with no prior completion the
// task is immediately due. Overdue is strictly past due, so a task due
// exactly at now reports IsOverdue=false with a zero distance; it flips
// overdue on the next tick. Callers gate the no-history case behind the
// loading indicator anyway.
func StatusAt(now time.Time, lastCompletedMS *int64, frequency time.Duration) Status {
	due := now
	if lastCompletedMS != nil {
		due = time.UnixMilli(*lastCompletedMS).Add(frequency)
	}

	return Status{
		IsOverdue: due.Before(now),
		Distance:  Between(now, due),
	}
}
