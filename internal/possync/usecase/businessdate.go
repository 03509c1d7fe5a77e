package usecase

import "time"

const businessDateLayout = "2006-01-02"

// DefaultCloseoutHour is the local hour before which sales still belong to
// the previous operating day.
const DefaultCloseoutHour = 3

// BusinessDate returns the operating day t falls in at loc.
func BusinessDate(t time.Time, loc *time.Location, closeoutHour int) string {
	local := t.In(loc)
	if local.Hour() < closeoutHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(businessDateLayout)
}

// BusinessDates lists every operating day touched by [start, end], oldest first.
func BusinessDates(start, end time.Time, loc *time.Location, closeoutHour int) []string {
	if end.Before(start) {
		return nil
	}

	first, _ := time.ParseInLocation(businessDateLayout, BusinessDate(start, loc, closeoutHour), loc)
	last := BusinessDate(end, loc, closeoutHour)

	var dates []string
	for d := first; ; d = d.AddDate(0, 0, 1) {
		s := d.Format(businessDateLayout)
		dates = append(dates, s)
		if s == last {
			return dates
		}
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
