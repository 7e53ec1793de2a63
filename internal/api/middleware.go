package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/observability"
)

// requestLogger stamps every request with an id and logs failed requests.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		id := xid.New().String()
		c.Writer.Header().Set("X-Request-Id", id)
		reqlogger := log.Logger.With().Str("request_id", id).Logger()
		c.Set("_log", reqlogger)

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			reqlogger.Debug().Str("method", c.Request.Method).Str("path", path).Int("status", status).
				Dur("latency", time.Since(start)).Msg("Request")
			return
		}

		msg := "Request"
		if len(c.Errors) > 0 {
			msg = c.Errors.String()
		}
		ev := reqlogger.Warn()
		if status >= http.StatusInternalServerError {
			ev = reqlogger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Str("user-agent", c.Request.UserAgent()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg(msg)
	}
}

// requestMetrics records latency by route template.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.RecordHTTPRequest(route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// logger returns the request-scoped logger.
func logger(c *gin.Context) zerolog.Logger {
	if l, ok := c.Get("_log"); ok {
		return l.(zerolog.Logger)
	}
	return log.Logger
}
