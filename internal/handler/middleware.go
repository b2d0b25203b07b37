package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/qs-lzh/movie-list/internal/app"
	"github.com/qs-lzh/movie-list/internal/session"
)

// RequireLogin sends anonymous visitors to the login page, leaving flash
// as a danger message when it is not empty.
func RequireLogin(a *app.App, flash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s.Authenticated() {
			c.Next()
			return
		}
		if flash != "" {
			s.Flash(session.FlashDanger, flash)
		}
		redirect(a, c, "/login")
		c.Abort()
	}
}

// RedirectIfAuthenticated keeps logged in users away from the entry forms.
func RedirectIfAuthenticated(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.FromContext(c).Authenticated() {
			redirect(a, c, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows each client IP perMinute requests per minute with bursts
// of up to burst. A non-positive perMinute disables the limit.
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	var mu sync.Mutex
	clients := make(map[string]*clientLimiter)
	limit := rate.Limit(float64(perMinute) / 60)

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		if len(clients) >= limiterSweepSize {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) > limiterIdleTTL {
					delete(clients, key)
				}
			}
		}
		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		allowed := cl.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
