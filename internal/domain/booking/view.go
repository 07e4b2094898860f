package booking

// DayView is the availability grid of one date: a row per half-hour mark and a
// cell per barber.
type DayView struct {
	Date    string   `json:"date"`
	Special bool     `json:"special_period"`
	Barbers []string `json:"barbers"`
	Rows    []DayRow `json:"rows"`
}

type DayRow struct {
	Time  string `json:"time"`
	Cells []Cell `json:"cells"`
}

type Cell struct {
	Barber string `json:"barber"`
	State  State  `json:"state"`
	Reason Reason `json:"reason,omitempty"`
	Label  string `json:"label"`
}

// Cell returns the cell of barber at hm, if present.
func (v *DayView) Cell(hm, barber string) (Cell, bool) {
	for _, row := range v.Rows {
		if row.Time != hm {
			continue
		}
		for _, c := range row.Cells {
			if c.Barber == barber {
				return c, true
			}
		}
	}
	return Cell{}, false
}
