package permcase

import "time"

// Calendar answers "is this a business day?" for business-day arithmetic.
// A business day is any weekday that is not a federal holiday and not one of
// the extra holidays supplied at construction.  A Calendar is immutable after
// construction and safe for concurrent use.
type Calendar struct {
	federal bool
	extra   map[string]struct{}
}

// NewCalendar builds a Calendar.  When federal is true the computed US
// federal holiday schedule (with Saturday→Friday and Sunday→Monday observance
// shifts) is applied; extra lists additional non-business dates, e.g. state
// court holidays, as ISO strings.
func NewCalendar(federal bool, extra []Date) Calendar {
	m := make(map[string]struct{}, len(extra))
	for _, d := range extra {
		m[d.String()] = struct{}{}
	}
	return Calendar{federal: federal, extra: m}
}

// USFederalCalendar returns the default Calendar: federal holidays only.
func USFederalCalendar() Calendar {
	return NewCalendar(true, nil)
}

// IsBusinessDay reports whether d is a weekday and not a holiday.
func (c Calendar) IsBusinessDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(d)
}

// IsHoliday reports whether d is a federal holiday (observed) or an extra
// holiday from the construction list.
func (c Calendar) IsHoliday(d Date) bool {
	if _, ok := c.extra[d.String()]; ok {
		return true
	}
	return c.federal && isObservedFederalHoliday(d)
}

// AddBusinessDays returns the date n business days after d, skipping
// weekends and holidays.  n must be non-negative; the engine's derivations
// only ever count forward.  The start date itself is not counted.
func (c Calendar) AddBusinessDays(d Date, n int) Date {
	out := d
	for remaining := n; remaining > 0; {
		out = out.AddDays(1)
		if c.IsBusinessDay(out) {
			remaining--
		}
	}
	return out
}

// AddCalendarDays returns the date n calendar days after d.  It exists
// alongside Date.AddDays so that call sites derived from regulatory text
// read uniformly against AddBusinessDays.
func AddCalendarDays(d Date, n int) Date {
	return d.AddDays(n)
}

// NearestSundayOnOrBefore returns d itself when d is a Sunday, otherwise the
// closest preceding Sunday.  Sunday-ad deadlines snap backward because the
// filed document must itself fall on a Sunday.
func NearestSundayOnOrBefore(d Date) Date {
	offset := int(d.Weekday()) // Sunday == 0
	return d.AddDays(-offset)
}

// ObservedFederalHolidays returns the observed US federal holiday dates for
// a year, in calendar order.  A holiday whose observance shifts into the
// prior December is excluded; the prior year's listing carries it.
func ObservedFederalHolidays(year int) []Date {
	var out []Date
	for _, h := range federalHolidays(year) {
		obs := observed(h)
		if obs.Year() == year {
			out = append(out, obs)
		}
	}
	nextNewYear := observed(NewDate(year+1, time.January, 1))
	if nextNewYear.Year() == year {
		out = append(out, nextNewYear)
	}
	return out
}

// isObservedFederalHoliday computes the US federal holiday schedule for the
// year of d and applies the OPM observance shifts: a Saturday holiday is
// observed on the preceding Friday, a Sunday holiday on the following Monday.
// Computing per date keeps the Calendar allocation-free and valid for any
// year without a lookup table.
func isObservedFederalHoliday(d Date) bool {
	year := d.Year()
	for _, h := range federalHolidays(year) {
		if observed(h).Equal(d) {
			return true
		}
	}
	// A shifted New Year's Day can land in the prior December.
	if d.Weekday() == time.Friday {
		nextNewYear := NewDate(year+1, time.January, 1)
		if observed(nextNewYear).Equal(d) {
			return true
		}
	}
	return false
}

// observed applies the weekend observance shift to an actual holiday date.
func observed(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(-1)
	case time.Sunday:
		return d.AddDays(1)
	}
	return d
}

// federalHolidays lists the actual (unshifted) US federal holidays for a year.
func federalHolidays(year int) []Date {
	return []Date{
		NewDate(year, time.January, 1),                      // New Year's Day
		nthWeekday(year, time.January, time.Monday, 3),      // Birthday of Martin Luther King, Jr.
		nthWeekday(year, time.February, time.Monday, 3),     // Washington's Birthday
		lastWeekday(year, time.May, time.Monday),            // Memorial Day
		NewDate(year, time.June, 19),                        // Juneteenth
		NewDate(year, time.July, 4),                         // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),    // Labor Day
		nthWeekday(year, time.October, time.Monday, 2),      // Columbus Day
		NewDate(year, time.November, 11),                    // Veterans Day
		nthWeekday(year, time.November, time.Thursday, 4),   // Thanksgiving Day
		NewDate(year, time.December, 25),                    // Christmas Day
	}
}

// nthWeekday returns the nth given weekday of a month (n is 1-based).
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) Date {
	first := NewDate(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDays(offset + (n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) Date {
	last := NewDate(year, month+1, 1).AddDays(-1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDays(-offset)
}
