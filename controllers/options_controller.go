package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/chanceboard/config"
	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/utils"
)

// OptionsController serves the dashboard controls and the configured notice.
type OptionsController struct{}

func NewOptionsController() *OptionsController { return &OptionsController{} }

type weekdayOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GetOptions returns the weekdays, selection modes and slider bounds.
func (c *OptionsController) GetOptions(ctx *gin.Context) {
	days := make([]weekdayOption, 0, 7)
	for _, d := range draws.Weekdays() {
		days = append(days, weekdayOption{Value: d.Name(), Label: d.String()})
	}
	utils.Success(ctx, gin.H{
		"weekdays":  days,
		"modes":     []draws.Mode{draws.ModeTop, draws.ModeDiverse},
		"min_count": minCountBounds,
		"hot_limit": hotLimitBounds,
		"draw_rows": drawRowsBounds,
	})
}

// GetNotice returns announcement/notice content configured via config.
func (c *OptionsController) GetNotice(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title": cfg.NoticeTitle,
		"html":  cfg.NoticeHTML,
	})
}
