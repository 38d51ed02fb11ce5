package draws

// Mode selects how hot combinations are picked.
type Mode string

const (
	ModeTop     Mode = "top"
	ModeDiverse Mode = "diverse"
)

// ParseMode maps an empty or unknown value to ModeTop.
func ParseMode(s string) Mode {
	if Mode(s) == ModeDiverse {
		return ModeDiverse
	}
	return ModeTop
}

// Status tells the caller which empty case, if any, a HotResult is in.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoData      Status = "no_data"
	StatusFilteredOut Status = "filtered_out"
)

// HotQuery describes one request for hot combinations.
type HotQuery struct {
	Day      Weekday
	Mode     Mode
	MinCount int
	Limit    int
}

// HotResult is the answer to a HotQuery.
type HotResult struct {
	Day        Weekday           `json:"day"`
	Mode       Mode              `json:"mode"`
	Status     Status            `json:"status"`
	DayDraws   int               `json:"day_draws"`
	Candidates int               `json:"candidates"`
	Skipped    int               `json:"skipped"`
	Items      []CombinationStat `json:"items"`
}

// Hot runs stats for the day, the min-count filter and the selected mode.
func Hot(records []DrawRecord, q HotQuery) HotResult {
	res := HotResult{Day: q.Day, Mode: q.Mode, Items: []CombinationStat{}}

	stats := StatsForDay(records, q.Day)
	for _, s := range stats {
		res.DayDraws += s.Count
	}
	if len(stats) == 0 {
		res.Status = StatusNoData
		return res
	}

	filtered := FilterMinCount(stats, q.MinCount)
	res.Candidates = len(filtered)
	if len(filtered) == 0 {
		res.Status = StatusFilteredOut
		return res
	}

	res.Status = StatusOK
	if q.Mode == ModeDiverse {
		res.Items, res.Skipped = SelectDiverse(filtered, q.Limit)
	} else {
		res.Items = Top(filtered, q.Limit)
	}
	return res
}
