package draws

import "sort"

// StatsForDay counts the combinations drawn on day, most frequent first.
// Equal counts keep the order in which the key was first seen.
func StatsForDay(records []DrawRecord, day Weekday) []CombinationStat {
	stats := []CombinationStat{}
	index := map[CombinationKey]int{}
	for _, r := range records {
		if r.Weekday != day {
			continue
		}
		if i, ok := index[r.Key]; ok {
			stats[i].Count++
			continue
		}
		index[r.Key] = len(stats)
		stats = append(stats, CombinationStat{Key: r.Key, Count: 1})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// SelectDiverse greedily picks up to n entries of stats so that no symbol repeats
// in the same position across the picks. It never backtracks. skipped counts the
// candidates it rejected, malformed keys included.
//
// When nothing at all could be picked the first n entries are returned unfiltered;
// a short but non-empty pick is returned as is.
func SelectDiverse(stats []CombinationStat, n int) (chosen []CombinationStat, skipped int) {
	chosen = []CombinationStat{}
	if n <= 0 {
		return chosen, 0
	}

	var used [4]map[string]struct{}
	for i := range used {
		used[i] = map[string]struct{}{}
	}

	for _, s := range stats {
		if len(chosen) == n {
			break
		}
		parts, ok := s.Key.Parts()
		if !ok {
			skipped++
			continue
		}
		collides := false
		for i, p := range parts {
			if _, taken := used[i][p]; taken {
				collides = true
				break
			}
		}
		if collides {
			skipped++
			continue
		}
		for i, p := range parts {
			used[i][p] = struct{}{}
		}
		chosen = append(chosen, s)
	}

	if len(chosen) == 0 {
		return Top(stats, n), skipped
	}
	return chosen, skipped
}

// FilterMinCount keeps the entries drawn at least minCount times.
func FilterMinCount(stats []CombinationStat, minCount int) []CombinationStat {
	out := make([]CombinationStat, 0, len(stats))
	for _, s := range stats {
		if s.Count >= minCount {
			out = append(out, s)
		}
	}
	return out
}

// Top returns a copy of the first n entries.
func Top(stats []CombinationStat, n int) []CombinationStat {
	if n < 0 {
		n = 0
	}
	if n > len(stats) {
		n = len(stats)
	}
	out := make([]CombinationStat, n)
	copy(out, stats[:n])
	return out
}
