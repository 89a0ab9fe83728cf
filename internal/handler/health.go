package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Root is the liveness probe.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Shop ERP Backend Running"})
	}
}

// StoreProbe reports backend, database and cache connectivity. The process
// starts even when the store is unreachable (db may be nil) — this endpoint is
// where that degraded state becomes visible.
func StoreProbe(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		resp := gin.H{"backend": "ok", "database": "unavailable", "cache": "unavailable"}
		status := http.StatusServiceUnavailable

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil && sqlDB.PingContext(ctx) == nil {
				resp["database"] = "ok"
				status = http.StatusOK
				if tables, err := db.WithContext(ctx).Migrator().GetTables(); err == nil {
					resp["collections"] = tables
				}
			}
		}

		if rdb != nil && rdb.Ping(ctx).Err() == nil {
			resp["cache"] = "ok"
		}

		c.JSON(status, resp)
	}
}
