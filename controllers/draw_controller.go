package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/utils"
)

// DrawController lists the individual draws of a weekday.
type DrawController struct {
	source DatasetSource
}

// NewDrawController creates a DrawController reading draws from source.
func NewDrawController(source DatasetSource) *DrawController {
	return &DrawController{source: source}
}

type drawList struct {
	Day   draws.Weekday      `json:"day"`
	Total int                `json:"total"`
	Items []draws.DrawRecord `json:"items"`
	// Warning is set when the search box held something that is not a draw number.
	Warning string `json:"warning,omitempty"`
}

// selectDraws applies the day, search and row limit. limit <= 0 keeps every row.
func (c *DrawController) selectDraws(ctx *gin.Context, limit int) (drawList, bool) {
	day, ok := parseDay(ctx)
	if !ok {
		return drawList{}, false
	}
	ds, ok := loadDataset(ctx, c.source)
	if !ok {
		return drawList{}, false
	}

	out := drawList{Day: day}
	items := draws.DrawsForDay(ds.Records, day)
	id, search, err := draws.ParseDrawSearch(ctx.Query("search"))
	switch {
	case err != nil:
		out.Warning = "יש להזין מספר הגרלה תקין"
	case search:
		items = draws.FilterDrawID(items, id)
	}

	out.Total = len(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out.Items = items
	return out, true
}

// ListDraws returns the newest draws of a weekday.
func (c *DrawController) ListDraws(ctx *gin.Context) {
	list, ok := c.selectDraws(ctx, drawRowsBounds.Clamp(ctx.Query("limit")))
	if !ok {
		return
	}
	utils.Success(ctx, list)
}

// DrawsCSV downloads every draw of a weekday that matches the search.
func (c *DrawController) DrawsCSV(ctx *gin.Context) {
	list, ok := c.selectDraws(ctx, 0)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := draws.WriteDrawsCSV(&buf, list.Items); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to build csv")
		return
	}
	utils.Attachment(ctx, draws.DrawsCSVName(list.Day), "text/csv; charset=utf-8", buf.Bytes())
}
