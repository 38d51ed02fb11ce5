package draws

import (
	"sort"
	"strconv"
	"strings"
)

// DrawsForDay returns the records of day, newest draw first.
func DrawsForDay(records []DrawRecord, day Weekday) []DrawRecord {
	out := []DrawRecord{}
	for _, r := range records {
		if r.Weekday == day {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DrawID > out[j].DrawID
	})
	return out
}

// ParseDrawSearch reads a draw-number search box. Blank input is not a search.
func ParseDrawSearch(s string) (id int, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	id, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, ErrInvalidDrawSearch
	}
	return id, true, nil
}

// FilterDrawID keeps the records with the given draw number.
func FilterDrawID(records []DrawRecord, id int) []DrawRecord {
	out := []DrawRecord{}
	for _, r := range records {
		if r.DrawID == id {
			out = append(out, r)
		}
	}
	return out
}
