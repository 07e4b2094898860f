package booking

import (
	"fmt"
	"strings"
	"time"
)

const SlotStep = 30 * time.Minute

type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) before(other MonthDay) bool {
	if md.Month != other.Month {
		return md.Month < other.Month
	}
	return md.Day < other.Day
}

// Period is an inclusive yearly date range. From after To wraps the new year.
type Period struct {
	From MonthDay
	To   MonthDay
}

// ParsePeriod reads "MM-DD:MM-DD".
func ParsePeriod(s string) (Period, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}

	parse := func(v string) (MonthDay, error) {
		t, err := time.Parse("01-02", v)
		if err != nil {
			return MonthDay{}, fmt.Errorf("invalid period bound %q: %w", v, err)
		}
		return MonthDay{Month: t.Month(), Day: t.Day()}, nil
	}

	from, err := parse(parts[0])
	if err != nil {
		return Period{}, err
	}
	to, err := parse(parts[1])
	if err != nil {
		return Period{}, err
	}
	return Period{From: from, To: to}, nil
}

func (p Period) Contains(date time.Time) bool {
	md := MonthDay{Month: date.Month(), Day: date.Day()}
	if p.To.before(p.From) {
		return !md.before(p.From) || !p.To.before(md)
	}
	return !md.before(p.From) && !p.To.before(md)
}

// Window is a half-open [Start, End) range of "HH:MM" marks.
type Window struct {
	Start string
	End   string
}

func (w Window) contains(minute int) bool {
	start, err1 := minutesOf(w.Start)
	end, err2 := minutesOf(w.End)
	if err1 != nil || err2 != nil {
		return false
	}
	return minute >= start && minute < end
}

// Calendar holds the static opening rules of the shop.
type Calendar struct {
	// EarlyOpen..Open slots exist only during the special period.
	EarlyOpen string
	Open      string
	Close     string
	ClosedDay time.Weekday
	Special   Period
	// Weekday (Mon-Fri) windows per barber, suspended during the special period.
	Breaks map[string][]Window
	// Unavailable windows follow the same weekday rule but are not lunch.
	Unavailable map[string][]Window
}

func DefaultCalendar() *Calendar {
	return &Calendar{
		EarlyOpen: "07:00",
		Open:      "08:00",
		Close:     "20:00",
		ClosedDay: time.Sunday,
		Special: Period{
			From: MonthDay{Month: time.July, Day: 10},
			To:   MonthDay{Month: time.July, Day: 19},
		},
		Breaks: map[string][]Window{
			"Lucas Borges": {
				{Start: "12:00", End: "14:00"},
			},
			"Aluizio": {
				{Start: "11:00", End: "13:00"},
			},
		},
		Unavailable: map[string][]Window{
			"Lucas Borges": {
				{Start: "08:00", End: "08:30"},
			},
		},
	}
}

// Times lists every half-hour mark that can ever be booked.
func (c *Calendar) Times() []string {
	start, _ := minutesOf(c.EarlyOpen)
	end, _ := minutesOf(c.Close)
	step := int(SlotStep / time.Minute)

	var out []string
	for m := start; m+step <= end; m += step {
		out = append(out, formatMinutes(m))
	}
	return out
}

func (c *Calendar) IsSlot(hm string) bool {
	m, err := minutesOf(hm)
	if err != nil || formatMinutes(m) != hm {
		return false
	}
	start, _ := minutesOf(c.EarlyOpen)
	end, _ := minutesOf(c.Close)
	step := int(SlotStep / time.Minute)
	return m >= start && m+step <= end && (m-start)%step == 0
}

func (c *Calendar) IsSpecial(date time.Time) bool {
	return c.Special.Contains(date)
}

func (c *Calendar) IsClosedDay(date time.Time) bool {
	return date.Weekday() == c.ClosedDay && !c.IsSpecial(date)
}

// IsEarlyOnly reports slots before the regular opening hour.
func (c *Calendar) IsEarlyOnly(hm string) bool {
	m, err := minutesOf(hm)
	if err != nil {
		return false
	}
	open, _ := minutesOf(c.Open)
	return m < open
}

func (c *Calendar) IsBreak(date time.Time, hm, barber string) bool {
	return c.inWeekdayWindow(c.Breaks[barber], date, hm)
}

// IsUnavailable reports weekday slots the barber does not take outside lunch.
func (c *Calendar) IsUnavailable(date time.Time, hm, barber string) bool {
	return c.inWeekdayWindow(c.Unavailable[barber], date, hm)
}

func (c *Calendar) inWeekdayWindow(windows []Window, date time.Time, hm string) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday || c.IsSpecial(date) {
		return false
	}
	m, err := minutesOf(hm)
	if err != nil {
		return false
	}
	for _, w := range windows {
		if w.contains(m) {
			return true
		}
	}
	return false
}

// Next returns the following half-hour mark; false when it would start at or
// after closing.
func (c *Calendar) Next(hm string) (string, bool) {
	m, err := minutesOf(hm)
	if err != nil {
		return "", false
	}
	next := formatMinutes(m + int(SlotStep/time.Minute))
	if !c.IsSlot(next) {
		return "", false
	}
	return next, true
}

// StaticBlock applies the rules that need no storage access.
func (c *Calendar) StaticBlock(date time.Time, hm, barber string) (Reason, bool) {
	switch {
	case c.IsClosedDay(date):
		return ReasonClosed, true
	case c.IsEarlyOnly(hm) && !c.IsSpecial(date):
		return ReasonOutsideSpecial, true
	case c.IsUnavailable(date, hm, barber):
		return ReasonUnavailable, true
	case c.IsBreak(date, hm, barber):
		return ReasonLunch, true
	}
	return ReasonNone, false
}

func minutesOf(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
