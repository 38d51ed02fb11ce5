package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/cppla/chanceboard/config"
	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSource struct {
	ds  draws.Dataset
	err error
}

func (f fakeSource) Dataset() (draws.Dataset, error) { return f.ds, f.err }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func rec(id int, day draws.Weekday, key string) draws.DrawRecord {
	k := draws.CombinationKey(key)
	parts, _ := k.Parts()
	return draws.DrawRecord{
		DrawID:  id,
		Date:    time.Date(2024, 1, id%28+1, 0, 0, 0, 0, time.UTC),
		Weekday: day,
		Spade:   parts[0],
		Heart:   parts[1],
		Diamond: parts[2],
		Club:    parts[3],
		Key:     k,
	}
}

func sampleSource() fakeSource {
	return fakeSource{ds: draws.Dataset{
		Version: time.Unix(1700000000, 0),
		Records: []draws.DrawRecord{
			rec(1, draws.Sunday, "A-7-8-9"),
			rec(2, draws.Sunday, "K-7-8-9"),
			rec(3, draws.Sunday, "A-7-8-9"),
			rec(4, draws.Monday, "A-7-8-9"),
			rec(5, draws.Sunday, "K-7-8-9"),
			rec(6, draws.Sunday, "A-7-8-9"),
			rec(7, draws.Sunday, "Q-J-10-8"),
			rec(8, draws.Sunday, "Q-J-10-8"),
			rec(9, draws.Sunday, "J-10-9-7"),
		},
	}}
}

func setupConfig(t *testing.T) {
	t.Helper()
	config.Set(config.AppConfig{DBDriver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"})
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{DBDriver: "sqlite", DatabaseURI: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ChatMessage{}, &models.DailyVisit{}))
	return db
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func comboRouter(src DatasetSource) *gin.Engine {
	c := NewComboController(src)
	r := gin.New()
	r.GET("/hot", c.Hot)
	r.GET("/hot.csv", c.HotCSV)
	r.GET("/chart", c.HotChart)
	return r
}

func TestBoundsClamp(t *testing.T) {
	b := Bounds{Min: 5, Max: 50, Default: 15}
	cases := map[string]int{
		"":     15,
		"abc":  15,
		"1":    5,
		"500":  50,
		" 20 ": 20,
		"5":    5,
		"50":   50,
	}
	for in, want := range cases {
		assert.Equal(t, want, b.Clamp(in), "input %q", in)
	}
}

func TestHotTopMode(t *testing.T) {
	setupConfig(t)
	r := comboRouter(sampleSource())

	w := do(r, http.MethodGet, "/hot?day=sunday&mode=top&min_count=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res draws.HotResult
	env := decode(t, w, &res)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, draws.StatusOK, res.Status)
	assert.Equal(t, 8, res.DayDraws)
	assert.Equal(t, 3, res.Candidates)
	require.Len(t, res.Items, 3)
	assert.Equal(t, draws.CombinationStat{Key: "A-7-8-9", Count: 3}, res.Items[0])
	assert.Equal(t, draws.CombinationKey("K-7-8-9"), res.Items[1].Key)
	assert.Equal(t, draws.CombinationKey("Q-J-10-8"), res.Items[2].Key)
}

func TestHotDiverseMode(t *testing.T) {
	setupConfig(t)
	r := comboRouter(sampleSource())

	w := do(r, http.MethodGet, "/hot?day=sunday&mode=diverse&min_count=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res draws.HotResult
	decode(t, w, &res)
	require.Len(t, res.Items, 2)
	assert.Equal(t, draws.CombinationKey("A-7-8-9"), res.Items[0].Key)
	assert.Equal(t, draws.CombinationKey("Q-J-10-8"), res.Items[1].Key)
	assert.Equal(t, 1, res.Skipped)
}

func TestHotEmptyCases(t *testing.T) {
	setupConfig(t)
	r := comboRouter(sampleSource())

	var res draws.HotResult
	decode(t, do(r, http.MethodGet, "/hot?day=saturday", nil), &res)
	assert.Equal(t, draws.StatusNoData, res.Status)
	assert.Empty(t, res.Items)

	res = draws.HotResult{}
	decode(t, do(r, http.MethodGet, "/hot?day=sunday&min_count=30", nil), &res)
	assert.Equal(t, draws.StatusFilteredOut, res.Status)
	assert.Empty(t, res.Items)
}

func TestHotUnknownDay(t *testing.T) {
	setupConfig(t)
	w := do(comboRouter(sampleSource()), http.MethodGet, "/hot?day=someday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40001, decode(t, w, nil).Code)
}

func TestHotDatasetUnavailable(t *testing.T) {
	setupConfig(t)
	cases := []struct {
		err  error
		code int
	}{
		{&draws.MissingColumnsError{Columns: []string{draws.ColClub}}, 50301},
		{&draws.SourceUnavailableError{Path: "x.xlsx", Err: errors.New("no such file")}, 50302},
		{&draws.RowError{Row: 4, Column: draws.ColDay, Value: "x", Err: draws.ErrUnknownWeekday}, 50303},
		{errors.New("boom"), 50300},
	}
	for _, tc := range cases {
		w := do(comboRouter(fakeSource{err: tc.err}), http.MethodGet, "/hot?day=sunday", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, tc.code, env.Code)
		assert.Equal(t, tc.err.Error(), env.Message)
	}
}

func TestHotCSV(t *testing.T) {
	setupConfig(t)
	w := do(comboRouter(sampleSource()), http.MethodGet, "/hot.csv?day=sunday", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "chance_sunday_hot.csv")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\ufeff"))
	assert.Contains(t, body, "A-7-8-9,3")
}

func TestHotChart(t *testing.T) {
	setupConfig(t)
	w := do(comboRouter(sampleSource()), http.MethodGet, "/chart?day=sunday", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "echarts")
	assert.Contains(t, w.Body.String(), "A-7-8-9")
}

func drawRouter(src DatasetSource) *gin.Engine {
	c := NewDrawController(src)
	r := gin.New()
	r.GET("/draws", c.ListDraws)
	r.GET("/draws.csv", c.DrawsCSV)
	return r
}

func TestListDraws(t *testing.T) {
	setupConfig(t)
	r := drawRouter(sampleSource())

	var list drawList
	decode(t, do(r, http.MethodGet, "/draws?day=sunday", nil), &list)
	assert.Equal(t, 8, list.Total)
	require.Len(t, list.Items, 8)
	assert.Equal(t, 9, list.Items[0].DrawID)
	assert.Equal(t, 1, list.Items[7].DrawID)
	assert.Empty(t, list.Warning)

	list = drawList{}
	decode(t, do(r, http.MethodGet, "/draws?day=sunday&search=5", nil), &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Items[0].DrawID)

	list = drawList{}
	decode(t, do(r, http.MethodGet, "/draws?day=sunday&search=abc", nil), &list)
	assert.NotEmpty(t, list.Warning)
	assert.Len(t, list.Items, 8)
}

func TestDrawsCSV(t *testing.T) {
	setupConfig(t)
	w := do(drawRouter(sampleSource()), http.MethodGet, "/draws.csv?day=monday", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "chance_draws_monday.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
}

func chatRouter(db *gorm.DB) *gin.Engine {
	c := NewChatController(db)
	r := gin.New()
	r.GET("/chat", c.ListMessages)
	r.POST("/chat", c.PostMessage)
	return r
}

func postChat(t *testing.T, r http.Handler, payload gin.H) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return do(r, http.MethodPost, "/chat", b)
}

func TestChatPostAndList(t *testing.T) {
	setupConfig(t)
	r := chatRouter(setupDB(t))

	w := postChat(t, r, gin.H{"message": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	var msg models.ChatMessage
	decode(t, w, &msg)
	assert.Equal(t, "אורח", msg.Username)
	assert.Equal(t, "general", msg.Channel)

	require.Equal(t, http.StatusCreated, postChat(t, r, gin.H{"username": "dana", "message": "<b>second</b>"}).Code)
	require.Equal(t, http.StatusCreated, postChat(t, r, gin.H{"message": "elsewhere", "channel": "vip"}).Code)

	var out struct {
		Channel string               `json:"channel"`
		Items   []models.ChatMessage `json:"items"`
	}
	decode(t, do(r, http.MethodGet, "/chat", nil), &out)
	assert.Equal(t, "general", out.Channel)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "first", out.Items[0].Message)
	assert.Equal(t, "second", out.Items[1].Message)
	assert.Equal(t, "dana", out.Items[1].Username)

	out.Items = nil
	decode(t, do(r, http.MethodGet, "/chat?limit=1", nil), &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "second", out.Items[0].Message)
}

func TestChatRejectsBadMessages(t *testing.T) {
	setupConfig(t)
	r := chatRouter(setupDB(t))

	w := postChat(t, r, gin.H{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40010, decode(t, w, nil).Code)

	w = postChat(t, r, gin.H{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postChat(t, r, gin.H{"message": strings.Repeat("א", 501)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40011, decode(t, w, nil).Code)

	w = postChat(t, r, gin.H{"message": strings.Repeat("א", 500)})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postChat(t, r, gin.H{"message": "hi", "username": strings.Repeat("u", 65)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40012, decode(t, w, nil).Code)
}

func TestGetStats(t *testing.T) {
	setupConfig(t)
	db := setupDB(t)
	today := time.Now().In(time.Local).Format("2006-01-02")
	require.NoError(t, db.Create(&models.ChatMessage{Username: "a", Message: "b", Channel: "general"}).Error)
	require.NoError(t, db.Create(&models.DailyVisit{VisitDate: today, Path: "/api/v1/combos/hot", Weekday: "sunday", Count: 3}).Error)
	require.NoError(t, db.Create(&models.DailyVisit{VisitDate: today, Path: "/", Weekday: "", Count: 2}).Error)
	require.NoError(t, db.Create(&models.DailyVisit{VisitDate: "2000-01-01", Path: "/", Weekday: "", Count: 9}).Error)

	c := NewStatsController(db, sampleSource())
	r := gin.New()
	r.GET("/stats", c.GetStats)

	var data struct {
		Available    bool           `json:"dataset_available"`
		DrawCount    int            `json:"draw_count"`
		ByDay        map[string]int `json:"draws_by_day"`
		MessageCount int64          `json:"chat_message_count"`
		TodayViews   int64          `json:"today_views"`
		TopWeekday   string         `json:"top_weekday_today"`
	}
	decode(t, do(r, http.MethodGet, "/stats", nil), &data)
	assert.True(t, data.Available)
	assert.Equal(t, 9, data.DrawCount)
	assert.Equal(t, 8, data.ByDay["sunday"])
	assert.Equal(t, 0, data.ByDay["friday"])
	assert.EqualValues(t, 1, data.MessageCount)
	assert.EqualValues(t, 5, data.TodayViews)
	assert.Equal(t, "sunday", data.TopWeekday)
}

func TestGetStatsWithoutDataset(t *testing.T) {
	setupConfig(t)
	c := NewStatsController(setupDB(t), fakeSource{err: errors.New("missing")})
	r := gin.New()
	r.GET("/stats", c.GetStats)

	w := do(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]interface{}
	decode(t, w, &data)
	assert.Equal(t, false, data["dataset_available"])
	assert.Equal(t, "missing", data["dataset_error"])
}

func TestGetOptions(t *testing.T) {
	setupConfig(t)
	c := NewOptionsController()
	r := gin.New()
	r.GET("/options", c.GetOptions)
	r.GET("/notice", c.GetNotice)

	var data struct {
		Weekdays []weekdayOption `json:"weekdays"`
		Modes    []string        `json:"modes"`
		MinCount Bounds          `json:"min_count"`
		HotLimit Bounds          `json:"hot_limit"`
		DrawRows Bounds          `json:"draw_rows"`
	}
	decode(t, do(r, http.MethodGet, "/options", nil), &data)
	require.Len(t, data.Weekdays, 7)
	assert.Equal(t, weekdayOption{Value: "sunday", Label: "ראשון"}, data.Weekdays[0])
	assert.Equal(t, []string{"top", "diverse"}, data.Modes)
	assert.Equal(t, Bounds{Min: 1, Max: 30, Default: 2}, data.MinCount)
	assert.Equal(t, Bounds{Min: 5, Max: 50, Default: 15}, data.HotLimit)
	assert.Equal(t, Bounds{Min: 20, Max: 500, Default: 80}, data.DrawRows)

	var notice map[string]string
	decode(t, do(r, http.MethodGet, "/notice", nil), &notice)
	assert.NotEmpty(t, notice["title"])
}

func TestHotFromWorkbook(t *testing.T) {
	setupConfig(t)
	f := excelize.NewFile()
	defer f.Close()
	sheet := draws.DefaultSheet
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	rows := [][]interface{}{
		{draws.ColDraw, draws.ColDate, draws.ColDay, draws.ColSpade, draws.ColHeart, draws.ColDiamond, draws.ColClub},
		{100, "2024-05-05", "ראשון", "A", "7", "8", "9"},
		{101, "2024-05-12", "ראשון", "A", "7", "8", "9"},
		{102, "2024-05-13", "שני", "K", "7", "8", "9"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "draws.xlsx")
	require.NoError(t, f.SaveAs(path))

	src := draws.NewCache(nil).Source(path, "")
	var res draws.HotResult
	decode(t, do(comboRouter(src), http.MethodGet, "/hot?day=sunday", nil), &res)
	require.Len(t, res.Items, 1)
	assert.Equal(t, draws.CombinationStat{Key: "A-7-8-9", Count: 2}, res.Items[0])
}
