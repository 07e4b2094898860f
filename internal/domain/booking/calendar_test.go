package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarTimes(t *testing.T) {
	cal := DefaultCalendar()
	times := cal.Times()

	require.Len(t, times, 26)
	assert.Equal(t, "07:00", times[0])
	assert.Equal(t, "19:30", times[len(times)-1])

	assert.True(t, cal.IsSlot("10:30"))
	assert.False(t, cal.IsSlot("10:15"))
	assert.False(t, cal.IsSlot("20:00"))
	assert.False(t, cal.IsSlot("6:30"))
	assert.False(t, cal.IsSlot("banana"))
}

func TestCalendarNext(t *testing.T) {
	cal := DefaultCalendar()

	next, ok := cal.Next("10:00")
	assert.True(t, ok)
	assert.Equal(t, "10:30", next)

	_, ok = cal.Next("19:30")
	assert.False(t, ok)
}

func TestPeriodContains(t *testing.T) {
	p, err := ParsePeriod("07-10:07-19")
	require.NoError(t, err)

	assert.True(t, p.Contains(day(2025, time.July, 10)))
	assert.True(t, p.Contains(day(2026, time.July, 19)))
	assert.False(t, p.Contains(day(2025, time.July, 20)))
	assert.False(t, p.Contains(day(2025, time.June, 15)))

	wrap, err := ParsePeriod("12-20:01-05")
	require.NoError(t, err)
	assert.True(t, wrap.Contains(day(2025, time.December, 31)))
	assert.True(t, wrap.Contains(day(2026, time.January, 2)))
	assert.False(t, wrap.Contains(day(2026, time.January, 6)))

	_, err = ParsePeriod("07-10")
	assert.Error(t, err)
}

func TestCalendarStaticBlock(t *testing.T) {
	cal := DefaultCalendar()

	cases := []struct {
		name   string
		date   time.Time
		hm     string
		barber string
		want   Reason
		block  bool
	}{
		{"sunday closed", day(2025, time.June, 15), "10:00", "Aluizio", ReasonClosed, true},
		{"sunday in special period", day(2025, time.July, 13), "10:00", "Aluizio", ReasonNone, false},
		{"early slot outside period", day(2025, time.June, 16), "07:30", "Aluizio", ReasonOutsideSpecial, true},
		{"early slot in period", day(2025, time.July, 15), "07:00", "Aluizio", ReasonNone, false},
		{"aluizio lunch", day(2025, time.June, 16), "11:30", "Aluizio", ReasonLunch, true},
		{"aluizio after lunch", day(2025, time.June, 16), "13:00", "Aluizio", ReasonNone, false},
		{"lucas lunch", day(2025, time.June, 16), "13:30", "Lucas Borges", ReasonLunch, true},
		{"lucas first slot", day(2025, time.June, 16), "08:00", "Lucas Borges", ReasonUnavailable, true},
		{"lucas first slot saturday", day(2025, time.June, 21), "08:00", "Lucas Borges", ReasonNone, false},
		{"lucas first slot in period", day(2025, time.July, 15), "08:00", "Lucas Borges", ReasonNone, false},
		{"aluizio first slot", day(2025, time.June, 16), "08:00", "Aluizio", ReasonNone, false},
		{"saturday no lunch", day(2025, time.June, 21), "12:00", "Lucas Borges", ReasonNone, false},
		{"lunch suspended in period", day(2025, time.July, 15), "12:00", "Lucas Borges", ReasonNone, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason, blocked := cal.StaticBlock(tc.date, tc.hm, tc.barber)
			assert.Equal(t, tc.block, blocked)
			assert.Equal(t, tc.want, reason)
		})
	}
}
