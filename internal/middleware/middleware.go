package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"restaurant-manager/internal/logger"
	"restaurant-manager/internal/models"
	"restaurant-manager/internal/utils"
)

const (
	CallerIDKey   = "callerID"
	CallerRoleKey = "callerRole"
)

func EnhancedLogger(log *logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		duration := param.Latency.String()
		status := fmt.Sprintf("%d", param.StatusCode)

		if param.StatusCode >= 500 {
			log.Error("API", fmt.Sprintf("%s %s - %s (%s) - ERROR: %s",
				param.Method, param.Path, status, duration, param.ErrorMessage))
		} else if param.StatusCode >= 400 {
			log.Warn("API", fmt.Sprintf("%s %s - %s (%s) - Client Error",
				param.Method, param.Path, status, duration))
		} else {
			log.LogAPI(param.Method, param.Path, status, duration)
		}

		log.Debug("REQUEST", fmt.Sprintf("IP: %s, UserAgent: %s",
			param.ClientIP, param.Request.UserAgent()))

		// Return empty string since we're handling logging ourselves
		return ""
	})
}

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if err, ok := recovered.(string); ok {
			log.Error("PANIC", fmt.Sprintf("Recovered from panic: %s", err))
			c.String(http.StatusInternalServerError, fmt.Sprintf("error: %s", err))
		} else {
			log.Error("PANIC", fmt.Sprintf("Recovered from panic: %v", recovered))
			c.String(http.StatusInternalServerError, "Internal server error")
		}
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-User-ID, X-User-Role")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func RateLimit(log *logger.Logger) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 100) // 100 requests per second

	return func(c *gin.Context) {
		if !limiter.Allow() {
			log.LogSecurity("RATE_LIMIT", fmt.Sprintf("Rate limit exceeded for IP: %s", c.ClientIP()))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": "1s",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identity extracts the caller set by the upstream auth gateway. Token
// verification happens there; by the time a request reaches this service
// the identity headers are trusted.
func Identity(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetHeader("X-User-ID")
		callerRole := models.Role(c.GetHeader("X-User-Role"))

		if callerID == "" || !callerRole.Valid() {
			log.LogSecurity("IDENTITY", fmt.Sprintf("Missing or invalid identity headers from %s", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Not authorized", "missing or invalid identity headers"))
			c.Abort()
			return
		}

		c.Set(CallerIDKey, callerID)
		c.Set(CallerRoleKey, callerRole)
		c.Next()
	}
}

// Caller returns the identity stored by the Identity middleware.
func Caller(c *gin.Context) (string, models.Role) {
	id := c.GetString(CallerIDKey)
	role, _ := c.Get(CallerRoleKey)
	r, _ := role.(models.Role)
	return id, r
}
