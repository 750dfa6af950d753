package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

// RequestLogger пишет по одной записи logrus на запрос.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if logger.Log == nil {
			return
		}

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if userID, ok := c.Get(ContextUserIDKey); ok {
			fields["user_id"] = userID
		}

		entry := logger.Log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// Recovery перехватывает panic в обработчике и отвечает INTERNAL_ERROR.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if logger.Log != nil {
					logger.Log.WithFields(logrus.Fields{
						"path":   c.Request.URL.Path,
						"method": c.Request.Method,
					}).Errorf("panic: %v\n%s", r, debug.Stack())
				}
				if !c.Writer.Written() {
					response.Error(c, apperror.Internal(fmt.Errorf("panic: %v", r), "внутренняя ошибка сервера"))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
