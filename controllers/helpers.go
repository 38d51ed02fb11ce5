package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/utils"
)

// DatasetSource supplies the loaded draws workbook.
type DatasetSource interface {
	Dataset() (draws.Dataset, error)
}

// Bounds is an integer control range with its default.
type Bounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Clamp parses raw and keeps it inside the bounds; blank or invalid input gives the default.
func (b Bounds) Clamp(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return b.Default
	}
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

var (
	minCountBounds    = Bounds{Min: 1, Max: 30, Default: 2}
	hotLimitBounds    = Bounds{Min: 5, Max: 50, Default: 15}
	drawRowsBounds    = Bounds{Min: 20, Max: 500, Default: 80}
	chatHistoryBounds = Bounds{Min: 1, Max: 200, Default: 50}
)

func itoa(v int) string { return strconv.Itoa(v) }

// parseDay reads the "day" query parameter; missing means Sunday, the first tab.
func parseDay(ctx *gin.Context) (draws.Weekday, bool) {
	raw := strings.TrimSpace(ctx.Query("day"))
	if raw == "" {
		return draws.Sunday, true
	}
	day, err := draws.ParseWeekday(raw)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "unknown day: "+raw)
		return 0, false
	}
	return day, true
}

// loadDataset writes a 503 and returns false when the workbook cannot be used.
func loadDataset(ctx *gin.Context, src DatasetSource) (draws.Dataset, bool) {
	ds, err := src.Dataset()
	if err == nil {
		return ds, true
	}

	var (
		missing *draws.MissingColumnsError
		source  *draws.SourceUnavailableError
		row     *draws.RowError
	)
	code := 50300
	switch {
	case errors.As(err, &missing):
		code = 50301
	case errors.As(err, &source):
		code = 50302
	case errors.As(err, &row):
		code = 50303
	}
	utils.Sugar.Errorw("dataset unavailable", "error", err, "code", code)
	utils.Error(ctx, http.StatusServiceUnavailable, code, err.Error())
	return draws.Dataset{}, false
}

// writeCachedJSON serves a cached envelope when present.
func writeCachedJSON(ctx *gin.Context, key string) bool {
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return true
	}
	return false
}
