package draws

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02.01.2006",
}

// Load reads the draws sheet of an xlsx workbook. An empty sheet name selects DefaultSheet.
func Load(path, sheet string) ([]DrawRecord, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	// Raw values keep dates as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Sheet: sheet, Err: err}
	}
	return LoadRows(rows)
}

// LoadRows converts a table whose first row is the header into draw records.
// It either returns every record or none.
func LoadRows(rows [][]string) ([]DrawRecord, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	records := make([]DrawRecord, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		cell := func(name string) string {
			idx := columns[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		rowNum := i + 1

		id, err := parseDrawID(cell(ColDraw))
		if err != nil {
			return nil, &RowError{Row: rowNum, Column: ColDraw, Value: cell(ColDraw), Err: err}
		}
		date, err := parseDate(cell(ColDate))
		if err != nil {
			return nil, &RowError{Row: rowNum, Column: ColDate, Value: cell(ColDate), Err: err}
		}
		day, err := ParseWeekday(cell(ColDay))
		if err != nil {
			return nil, &RowError{Row: rowNum, Column: ColDay, Value: cell(ColDay), Err: err}
		}

		rec := DrawRecord{
			DrawID:  id,
			Date:    date,
			Weekday: day,
			Spade:   cell(ColSpade),
			Heart:   cell(ColHeart),
			Diamond: cell(ColDiamond),
			Club:    cell(ColClub),
		}
		rec.Key = NewCombinationKey(rec.Spade, rec.Heart, rec.Diamond, rec.Club)
		records = append(records, rec)
	}
	return records, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseDrawID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.New("not an integer")
	}
	return int(f), nil
}

func parseDate(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognised date format")
}
