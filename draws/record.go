package draws

import (
	"strings"
	"time"
)

// Column headers of the draws sheet.
const (
	ColDraw    = "הגרלה"
	ColDate    = "תאריך"
	ColDay     = "יום"
	ColSpade   = "עלה"
	ColHeart   = "לב"
	ColDiamond = "יהלום"
	ColClub    = "תלתן"
	ColCombo   = "צירוף"
	ColCount   = "כמות"

	// DefaultSheet is the sheet holding every draw.
	DefaultSheet = "כל ההגרלות"

	// KeySeparator joins the four symbols of a combination.
	KeySeparator = "-"
)

// RequiredColumns in the order they are reported when missing.
var RequiredColumns = []string{ColDraw, ColDate, ColDay, ColSpade, ColHeart, ColDiamond, ColClub}

// CombinationKey is the spade-heart-diamond-club symbols of one draw.
type CombinationKey string

// NewCombinationKey trims each symbol and joins them in category order.
func NewCombinationKey(spade, heart, diamond, club string) CombinationKey {
	return CombinationKey(strings.Join([]string{
		strings.TrimSpace(spade),
		strings.TrimSpace(heart),
		strings.TrimSpace(diamond),
		strings.TrimSpace(club),
	}, KeySeparator))
}

// Parts splits the key into its four symbols. ok is false for any other shape.
func (k CombinationKey) Parts() (parts [4]string, ok bool) {
	split := strings.Split(string(k), KeySeparator)
	if len(split) != 4 {
		return parts, false
	}
	copy(parts[:], split)
	return parts, true
}

// DrawRecord is one row of the draws sheet.
type DrawRecord struct {
	DrawID  int            `json:"draw_id"`
	Date    time.Time      `json:"date"`
	Weekday Weekday        `json:"day"`
	Spade   string         `json:"spade"`
	Heart   string         `json:"heart"`
	Diamond string         `json:"diamond"`
	Club    string         `json:"club"`
	Key     CombinationKey `json:"combination"`
}

// CombinationStat is how many draws of a weekday share a key.
type CombinationStat struct {
	Key   CombinationKey `json:"combination"`
	Count int            `json:"count"`
}
