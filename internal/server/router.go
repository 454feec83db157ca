package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// router returns the HTTP handler serving the websocket and status endpoints.
func (s *Server) router(ws http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))

	r.GET("/ws", gin.WrapH(ws))
	r.GET("/healthz", healthCheck)
	r.GET("/stats", s.stats)

	return r
}

// requestLogger logs every completed HTTP request.
func requestLogger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}).Debug("http request")
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.relay.Stats())
}
