package draws

import (
	"encoding/csv"
	"io"
	"strconv"
)

const dateFormat = "2006-01-02"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StatsCSVName and DrawsCSVName are the download names for a day's exports.
func StatsCSVName(day Weekday) string { return "chance_" + day.Name() + "_hot.csv" }
func DrawsCSVName(day Weekday) string { return "chance_draws_" + day.Name() + ".csv" }

// WriteStatsCSV writes combination counts as BOM-prefixed UTF-8 CSV.
func WriteStatsCSV(w io.Writer, stats []CombinationStat) error {
	rows := make([][]string, 0, len(stats)+1)
	rows = append(rows, []string{ColCombo, ColCount})
	for _, s := range stats {
		rows = append(rows, []string{string(s.Key), strconv.Itoa(s.Count)})
	}
	return writeCSV(w, rows)
}

// WriteDrawsCSV writes draw rows with the same columns as the draws table.
func WriteDrawsCSV(w io.Writer, records []DrawRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{ColDraw, ColDate, ColDay, ColSpade, ColHeart, ColDiamond, ColClub, ColCombo})
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.DrawID),
			r.Date.Format(dateFormat),
			r.Weekday.String(),
			r.Spade,
			r.Heart,
			r.Diamond,
			r.Club,
			string(r.Key),
		})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
