// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestLogger emits one structured line per processed request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		viewer := utils.GetViewerFromContext(c)
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": duration.Milliseconds(),
			"ip":       c.ClientIP(),
			"role":     viewer.Role,
			"user_id":  viewer.UserID,
		}).Info("Request processed")
	}
}

// ErrorRecorder persists failed requests to the error_logs table so the
// admin area can inspect them later. GET requests and health checks are
// skipped to keep the table focused on mutations.
func ErrorRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		// Keep a copy of the request body for the log entry
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 400 {
			return
		}

		viewer := utils.GetViewerFromContext(c)
		errType := "client_error"
		if status >= 500 {
			errType = "server_error"
		}

		entry := &models.ErrorLog{
			Endpoint:  c.Request.URL.Path,
			Method:    c.Request.Method,
			Role:      viewer.Role,
			UserID:    viewer.UserID,
			ErrorType: errType,
			Message:   extractErrorMessage(blw.body.Bytes()),
		}

		// Save asynchronously, a failing log write must not fail the request
		go func() {
			if err := db.Create(entry).Error; err != nil {
				logrus.WithError(err).Error("Failed to record error log")
			}
		}()
	}
}

// Recovery converts panics into 500 responses and records the stack trace.
func Recovery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				viewer := utils.GetViewerFromContext(c)
				stack := string(debug.Stack())

				logrus.WithFields(logrus.Fields{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"panic":  r,
				}).Error("Panic recovered")

				entry := &models.ErrorLog{
					Endpoint:  c.Request.URL.Path,
					Method:    c.Request.Method,
					Role:      viewer.Role,
					UserID:    viewer.UserID,
					ErrorType: "panic",
					Message:   fmt.Sprint(r),
					Stack:     stack,
				}
				if err := db.Create(entry).Error; err != nil {
					logrus.WithError(err).Error("Failed to record panic")
				}

				utils.InternalErrorResponse(c, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

func extractErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	if len(body) > 500 {
		body = body[:500]
	}
	return string(body)
}
