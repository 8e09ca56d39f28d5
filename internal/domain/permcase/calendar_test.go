package permcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_FederalHolidays(t *testing.T) {
	cal := USFederalCalendar()

	assert.True(t, cal.IsHoliday(MustParseDate("2025-01-20"))) // MLK Day, 3rd Monday
	assert.True(t, cal.IsHoliday(MustParseDate("2025-05-26"))) // Memorial Day, last Monday
	assert.True(t, cal.IsHoliday(MustParseDate("2024-11-28"))) // Thanksgiving, 4th Thursday
	assert.True(t, cal.IsHoliday(MustParseDate("2024-06-19"))) // Juneteenth
	assert.False(t, cal.IsHoliday(MustParseDate("2024-11-29")))
}

func TestCalendar_ObservanceShifts(t *testing.T) {
	cal := USFederalCalendar()

	// July 4, 2026 is a Saturday; observed on Friday July 3.
	assert.True(t, cal.IsHoliday(MustParseDate("2026-07-03")))
	assert.False(t, cal.IsBusinessDay(MustParseDate("2026-07-03")))

	// January 1, 2023 is a Sunday; observed on Monday January 2.
	assert.True(t, cal.IsHoliday(MustParseDate("2023-01-02")))

	// January 1, 2022 is a Saturday; observed on Friday December 31, 2021.
	assert.True(t, cal.IsHoliday(MustParseDate("2021-12-31")))
}

func TestCalendar_IsBusinessDay(t *testing.T) {
	cal := USFederalCalendar()

	assert.True(t, cal.IsBusinessDay(MustParseDate("2024-06-28")))  // Friday
	assert.False(t, cal.IsBusinessDay(MustParseDate("2024-06-29"))) // Saturday
	assert.False(t, cal.IsBusinessDay(MustParseDate("2024-06-30"))) // Sunday
	assert.False(t, cal.IsBusinessDay(MustParseDate("2024-07-04"))) // Independence Day
}

func TestCalendar_ExtraHolidays(t *testing.T) {
	cal := NewCalendar(false, []Date{MustParseDate("2024-06-26")})
	assert.False(t, cal.IsBusinessDay(MustParseDate("2024-06-26"))) // Wednesday, but listed
	assert.True(t, cal.IsBusinessDay(MustParseDate("2024-07-04")))  // federal schedule off
}

func TestCalendar_AddBusinessDays(t *testing.T) {
	cal := USFederalCalendar()

	// Friday + 1 skips the weekend.
	assert.Equal(t, "2024-07-01", cal.AddBusinessDays(MustParseDate("2024-06-28"), 1).String())

	// Wednesday + 1 skips Independence Day (Thursday).
	assert.Equal(t, "2024-07-05", cal.AddBusinessDays(MustParseDate("2024-07-03"), 1).String())

	// Ten business days over Thanksgiving week.
	assert.Equal(t, "2024-12-10", cal.AddBusinessDays(MustParseDate("2024-11-25"), 10).String())

	// Zero is the identity; the start day is never counted.
	start := MustParseDate("2024-06-29") // Saturday
	assert.Equal(t, start, cal.AddBusinessDays(start, 0))
}

func TestNearestSundayOnOrBefore(t *testing.T) {
	assert.Equal(t, "2025-06-29", NearestSundayOnOrBefore(MustParseDate("2025-06-30")).String()) // Monday snaps back
	assert.Equal(t, "2025-06-29", NearestSundayOnOrBefore(MustParseDate("2025-07-05")).String()) // Saturday snaps back
	assert.Equal(t, "2025-06-29", NearestSundayOnOrBefore(MustParseDate("2025-06-29")).String()) // Sunday stays
}
