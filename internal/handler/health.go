package handler

import (
	"context"
	"net/http"
	"time"

	"facturas/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusConnected = "connected"
	statusError     = "error"
	statusDisabled  = "disabled"
)

// Health returns a JSON health check response.
// db is nil with the in-memory store and rdb is nil when the job queue is
// off; both report "disabled" and do not fail the check.
func Health(storage string, db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := statusDisabled
		if db != nil {
			dbStatus = statusConnected
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = statusError
			}
		}

		redisStatus := statusDisabled
		var dlq int64
		if rdb != nil {
			redisStatus = statusConnected
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = statusError
			} else {
				dlq, _ = worker.DLQLength(ctx, rdb, worker.QueueEmail)
			}
		}

		status := http.StatusOK
		if dbStatus == statusError || redisStatus == statusError {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":      status == http.StatusOK,
			"storage": storage,
			"db":      dbStatus,
			"redis":   redisStatus,
		}
		if rdb != nil {
			body["dlq_email"] = dlq
		}
		c.JSON(status, body)
	}
}
