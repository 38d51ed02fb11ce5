package draws

import "strings"

// Weekday is one of the seven draw days. The zero value is not a valid day.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayLabels = [...]string{
	Sunday:    "ראשון",
	Monday:    "שני",
	Tuesday:   "שלישי",
	Wednesday: "רביעי",
	Thursday:  "חמישי",
	Friday:    "שישי",
	Saturday:  "שבת",
}

var weekdayNames = [...]string{
	Sunday:    "sunday",
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
}

// Weekdays returns all days in display order, Sunday first.
func Weekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Valid reports whether d is one of the seven days.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// String returns the label used by the workbook.
func (d Weekday) String() string {
	if !d.Valid() {
		return ""
	}
	return weekdayLabels[d]
}

// Name returns the lowercase English name, used in URLs and file names.
func (d Weekday) Name() string {
	if !d.Valid() {
		return ""
	}
	return weekdayNames[d]
}

// ParseWeekday accepts the workbook label or the English day name.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays() {
		if s == weekdayLabels[d] || strings.EqualFold(s, weekdayNames[d]) {
			return d, nil
		}
	}
	return 0, ErrUnknownWeekday
}

// MarshalText encodes the day by its workbook label.
func (d Weekday) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseWeekday does.
func (d *Weekday) UnmarshalText(b []byte) error {
	v, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
