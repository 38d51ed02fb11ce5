package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/models"
	"github.com/cppla/chanceboard/utils"
)

// StatsController provides dashboard statistics such as dataset size and today's visits.
type StatsController struct {
	db     *gorm.DB
	source DatasetSource
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB, source DatasetSource) *StatsController {
	return &StatsController{db: db, source: source}
}

type weekdayCount struct {
	Weekday string
	Total   int64
}

// GetStats returns aggregate statistics for the dashboard.
// A broken workbook or database only zeroes its own numbers.
func (s *StatsController) GetStats(ctx *gin.Context) {
	data := gin.H{
		"dataset_available": false,
		"draw_count":        0,
		"draws_by_day":      map[string]int{},
	}

	if ds, err := s.source.Dataset(); err == nil {
		byDay := map[string]int{}
		for _, d := range draws.Weekdays() {
			byDay[d.Name()] = 0
		}
		for _, r := range ds.Records {
			byDay[r.Weekday.Name()]++
		}
		data["dataset_available"] = true
		data["draw_count"] = len(ds.Records)
		data["draws_by_day"] = byDay
		data["dataset_version"] = ds.Version
	} else {
		data["dataset_error"] = err.Error()
	}

	var messageCount int64
	if err := s.db.Model(&models.ChatMessage{}).Count(&messageCount).Error; err != nil {
		messageCount = 0
	}
	data["chat_message_count"] = messageCount

	// String date equality to avoid timezone/type mismatches between drivers
	today := time.Now().In(time.Local).Format("2006-01-02")
	var todayViews int64
	if err := s.db.Model(&models.DailyVisit{}).
		Where("visit_date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&todayViews).Error; err != nil {
		todayViews = 0
	}
	data["today_views"] = todayViews

	var top weekdayCount
	err := s.db.Model(&models.DailyVisit{}).
		Select("weekday, SUM(count) AS total").
		Where("visit_date = ? AND weekday <> ''", today).
		Group("weekday").
		Order("total DESC").
		Limit(1).
		Scan(&top).Error
	if err == nil && top.Weekday != "" {
		data["top_weekday_today"] = top.Weekday
	}

	utils.Success(ctx, data)
}
