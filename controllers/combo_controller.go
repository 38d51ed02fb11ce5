package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/chanceboard/charts"
	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/utils"
)

// ComboController serves the hot-combination views of the dashboard.
type ComboController struct {
	source DatasetSource
}

// NewComboController creates a ComboController reading draws from source.
func NewComboController(source DatasetSource) *ComboController {
	return &ComboController{source: source}
}

func parseHotQuery(ctx *gin.Context) (draws.HotQuery, bool) {
	day, ok := parseDay(ctx)
	if !ok {
		return draws.HotQuery{}, false
	}
	return draws.HotQuery{
		Day:      day,
		Mode:     draws.ParseMode(ctx.Query("mode")),
		MinCount: minCountBounds.Clamp(ctx.Query("min_count")),
		Limit:    hotLimitBounds.Clamp(ctx.Query("limit")),
	}, true
}

// hot resolves the query and dataset shared by every hot view.
func (c *ComboController) hot(ctx *gin.Context) (draws.HotQuery, draws.Dataset, bool) {
	q, ok := parseHotQuery(ctx)
	if !ok {
		return q, draws.Dataset{}, false
	}
	ds, ok := loadDataset(ctx, c.source)
	return q, ds, ok
}

// Hot returns the hot combinations for a weekday.
func (c *ComboController) Hot(ctx *gin.Context) {
	q, ds, ok := c.hot(ctx)
	if !ok {
		return
	}

	key := utils.CacheKey("combos", ds.Version.UnixNano(), q.Day.Name(), q.Mode, q.MinCount, q.Limit)
	if writeCachedJSON(ctx, key) {
		return
	}

	res := draws.Hot(ds.Records, q)
	utils.CacheSetJSON(key, res, 0)
	utils.Success(ctx, res)
}

// HotCSV downloads the selected hot combinations.
func (c *ComboController) HotCSV(ctx *gin.Context) {
	q, ds, ok := c.hot(ctx)
	if !ok {
		return
	}

	res := draws.Hot(ds.Records, q)
	var buf bytes.Buffer
	if err := draws.WriteStatsCSV(&buf, res.Items); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to build csv")
		return
	}
	utils.Attachment(ctx, draws.StatsCSVName(q.Day), "text/csv; charset=utf-8", buf.Bytes())
}

// HotChart renders the hot combinations as an echarts bar page.
func (c *ComboController) HotChart(ctx *gin.Context) {
	q, ds, ok := c.hot(ctx)
	if !ok {
		return
	}

	res := draws.Hot(ds.Records, q)
	cfg := charts.DefaultChartConfig()
	cfg.Title = "צירופים חמים ביום " + q.Day.String()
	cfg.Subtitle = "מינימום הופעות: " + itoa(q.MinCount)

	var buf bytes.Buffer
	if err := charts.RenderHotBar(&buf, res.Items, cfg); err != nil {
		utils.Sugar.Errorw("render chart failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to render chart")
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
