package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/models"
	"github.com/cppla/chanceboard/utils"
)

// VisitRecorder counts successful dashboard GETs per day, path and requested weekday.
// Chat polling, health checks, static assets and CSV downloads are not counted.
func VisitRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}
		path := c.FullPath()
		if path == "" || !countedPath(path) {
			return
		}

		weekday := ""
		if d, err := draws.ParseWeekday(c.Query("day")); err == nil {
			weekday = d.Name()
		}

		// Atomic upsert to avoid duplicate key errors under concurrency
		now := time.Now()
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "visit_date"}, {Name: "path"}, {Name: "weekday"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": now}),
		}).Create(&models.DailyVisit{
			VisitDate: now.In(time.Local).Format("2006-01-02"),
			Path:      path,
			Weekday:   weekday,
			Count:     1,
		}).Error
		if err != nil {
			utils.Sugar.Warnf("record visit failed path=%s err=%v", path, err)
		}
	}
}

func countedPath(path string) bool {
	switch {
	case path == "/":
		return true
	case strings.HasPrefix(path, "/charts/"):
		return true
	case path == "/api/v1/combos/hot", path == "/api/v1/draws":
		return true
	}
	return false
}
