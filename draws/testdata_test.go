package draws

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func rec(id int, day Weekday, key string) DrawRecord {
	parts, _ := CombinationKey(key).Parts()
	return DrawRecord{
		DrawID:  id,
		Weekday: day,
		Spade:   parts[0],
		Heart:   parts[1],
		Diamond: parts[2],
		Club:    parts[3],
		Key:     CombinationKey(key),
	}
}

// writeWorkbook saves rows (header first) into a new xlsx under t.TempDir().
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "draws.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func header() []interface{} {
	return []interface{}{ColDraw, ColDate, ColDay, ColSpade, ColHeart, ColDiamond, ColClub}
}
