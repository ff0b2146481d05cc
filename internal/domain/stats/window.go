package stats

import "time"

// Window identifies one of the rolling accumulation windows kept per scope.
type Window string

const (
	WindowCumulative Window = "cumulative"
	WindowMonth      Window = "month"
	WindowWeek       Window = "week"
	WindowYesterday  Window = "yesterday"
)

func (w Window) IsValid() bool {
	switch w {
	case WindowCumulative, WindowMonth, WindowWeek, WindowYesterday:
		return true
	}
	return false
}

func (w Window) String() string {
	return string(w)
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1))
}

// YearStart returns January 1st of t's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

// Yesterday returns the start of the day before t.
func Yesterday(t time.Time) time.Time {
	return DateOf(t).AddDate(0, 0, -1)
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameWeek reports whether a and b fall in the same Monday-start week.
func SameWeek(a, b time.Time) bool {
	return WeekStart(a).Equal(WeekStart(b))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// InWindow reports whether an order placed at orderTime belongs to the
// given window as of now. Yesterday means exactly the previous calendar
// day, not today.
func InWindow(w Window, orderTime, now time.Time) bool {
	switch w {
	case WindowCumulative:
		return true
	case WindowMonth:
		return SameMonth(orderTime, now)
	case WindowWeek:
		return SameWeek(orderTime, now)
	case WindowYesterday:
		return SameDay(orderTime, Yesterday(now))
	}
	return false
}
