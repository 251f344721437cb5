// Package imuweb publishes IMU readings over HTTP and websockets.
package imuweb

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Solutions16/sol16-MPU6050/poller"
	"github.com/Solutions16/sol16-MPU6050/sensors"
)

const DefaultListen = ":8000"

// Source is what the API reports on; *poller.Poller satisfies it.
type Source interface {
	Latest() *poller.Reading
	Sensors() (accel, gyro, temp sensors.Info)
}

// readingMessage is the wire form of a Reading, for HTTP and websocket alike.
type readingMessage struct {
	*poller.Reading
	Error string `json:"error,omitempty"`
}

// Marshal encodes r the way the API serves it.
func Marshal(r *poller.Reading) ([]byte, error) {
	return json.Marshal(newReadingMessage(r))
}

func newReadingMessage(r *poller.Reading) readingMessage {
	m := readingMessage{Reading: r}
	if r.Err != nil {
		m.Error = r.Err.Error()
	}
	return m
}

// NewRouter serves:
//
//	GET /healthz
//	GET /api/v1/events   latest reading
//	GET /api/v1/sensors  sensor metadata
//	GET /api/v1/ws       websocket stream of readings
func NewRouter(src Source, room *Room) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.GET("/events", func(c *gin.Context) {
		rd := src.Latest()
		if rd == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no reading yet"})
			return
		}
		c.JSON(http.StatusOK, newReadingMessage(rd))
	})
	api.GET("/sensors", func(c *gin.Context) {
		accel, gyro, temp := src.Sensors()
		c.JSON(http.StatusOK, gin.H{"accel": accel, "gyro": gyro, "temp": temp})
	})
	if room != nil {
		api.GET("/ws", gin.WrapH(room))
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debugln("IMUWeb: request")
	}
}
