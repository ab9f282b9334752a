package countdown

import (
	"testing"
	"time"
)

func TestBetween(t *testing.T) {
	base := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("ninety minutes is one hour thirty minutes", func(t *testing.T) {
		d := Between(base, base.Add(90*time.Minute))
		if d.Hours != 1 || d.Minutes != 30 || d.Seconds != 0 || d.Days != 0 {
			t.Errorf("got %+v", d)
		}
	})

	t.Run("argument order is irrelevant", func(t *testing.T) {
		a := Between(base, base.Add(26*time.Hour))
		b := Between(base.Add(26*time.Hour), base)
		if a != b {
			t.Errorf("got %+v vs %+v", a, b)
		}
		if a.Days != 1 || a.Hours != 2 {
			t.Errorf("got %+v, want 1 day 2 hours", a)
		}
	})

	t.Run("month boundaries use real calendar lengths", func(t *testing.T) {
		// Feb 2023 has 28 days: Jan 31 + 1 month lands on Feb 28.
		start := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)
		end := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)

		d := Between(start, end)
		if d.Months != 1 || d.Days != 1 {
			t.Errorf("got %+v, want 1 month 1 day", d)
		}
	})

	t.Run("full week", func(t *testing.T) {
		d := Between(base, base.AddDate(0, 0, 7))
		if d.Days != 7 || d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 {
			t.Errorf("got %+v, want exactly 7 days", d)
		}
	})

	t.Run("zero interval", func(t *testing.T) {
		if d := Between(base, base); d != (Distance{}) {
			t.Errorf("got %+v, want zero", d)
		}
	})
}

func TestStatusAt(t *testing.T) {
	const week = 7 * 24 * time.Hour

	t.Run("no prior completion is immediately due", func(t *testing.T) {
		now := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

		st := StatusAt(now, nil, week)
		if st.IsOverdue {
			// Due exactly now: not strictly in the past.
			t.Error("due-now should not count as overdue")
		}
		if st.Distance != (Distance{}) {
			t.Errorf("got distance %+v, want zero", st.Distance)
		}
	})

	t.Run("one second before due", func(t *testing.T) {
		completed := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
		last := completed.UnixMilli()
		now := completed.Add(week - time.Second)

		st := StatusAt(now, &last, week)
		if st.IsOverdue {
			t.Error("got overdue before the due instant")
		}
		if st.Distance.Seconds != 1 || st.Distance.Days != 0 || st.Distance.Hours != 0 || st.Distance.Minutes != 0 {
			t.Errorf("got %+v, want 1 second", st.Distance)
		}
	})

	t.Run("one second after due", func(t *testing.T) {
		completed := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
		last := completed.UnixMilli()
		now := completed.Add(week + time.Second)

		st := StatusAt(now, &last, week)
		if !st.IsOverdue {
			t.Error("got not overdue after the due instant")
		}
		if st.Distance.Seconds != 1 || st.Distance.Days != 0 {
			t.Errorf("got %+v, want 1 second past due", st.Distance)
		}
	})

	t.Run("seven day cycle overdue by a millisecond", func(t *testing.T) {
		// Complete at t=0 with frequency 604800000ms; probe at t=604800001.
		last := int64(0)
		now := time.UnixMilli(604800001)

		st := StatusAt(now, &last, 604800000*time.Millisecond)
		if !st.IsOverdue {
			t.Error("got not overdue")
		}
		if st.Distance.Days != 0 || st.Distance.Hours != 0 || st.Distance.Minutes != 0 || st.Distance.Seconds != 0 {
			t.Errorf("got %+v, want near-zero magnitude", st.Distance)
		}
	})

	t.Run("pending distance counts down", func(t *testing.T) {
		completed := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
		last := completed.UnixMilli()
		now := completed.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute)

		st := StatusAt(now, &last, week)
		want := Distance{Days: 4, Hours: 20, Minutes: 56}
		if st.IsOverdue || st.Distance != want {
			t.Errorf("got overdue=%v %+v, want %+v", st.IsOverdue, st.Distance, want)
		}
	})
}
