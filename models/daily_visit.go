package models

import "time"

// DailyVisit counts dashboard views per calendar day, path and the weekday asked for.
// VisitDate is stored as YYYY-MM-DD text so MySQL and SQLite compare it the same way.
type DailyVisit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VisitDate string    `gorm:"size:10;not null;uniqueIndex:idx_visit_date_path_day" json:"visit_date"`
	Path      string    `gorm:"size:255;not null;uniqueIndex:idx_visit_date_path_day" json:"path"`
	Weekday   string    `gorm:"size:16;not null;default:'';uniqueIndex:idx_visit_date_path_day" json:"weekday"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
