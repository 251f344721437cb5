// Package poller owns an IMU and samples it on a clock, publishing
// timestamped event triples over channels.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Solutions16/sol16-MPU6050/sensors"
)

const DefaultBufSize = 250 // Size of buffer storing instantaneous sensor values

// Reading is one poll cycle. On a failed read Err is set and the events are
// the last good ones, restamped.
type Reading struct {
	Accel sensors.Event `json:"accel"`
	Gyro  sensors.Event `json:"gyro"`
	Temp  sensors.Event `json:"temp"`
	T     time.Time     `json:"t"`
	N     int           `json:"n"` // Poll count, starting at 1
	Err   error         `json:"-"`
}

// Poller serializes all access to its IMU; the IMU itself is not safe for
// concurrent use. All communication is via channels except Latest and Do.
type Poller struct {
	mu       sync.Mutex
	imu      sensors.IMU
	interval time.Duration
	n        int
	latest   *Reading

	C    <-chan *Reading // Current instantaneous sensor values
	CBuf <-chan *Reading // Buffer of instantaneous sensor values, oldest dropped when full
	cC   chan *Reading
	cBuf chan *Reading
}

func New(imu sensors.IMU, interval time.Duration, bufSize int) (*Poller, error) {
	if imu == nil {
		return nil, errors.New("poller: imu required")
	}
	if interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	p := &Poller{
		imu:      imu,
		interval: interval,
		cC:       make(chan *Reading),
		cBuf:     make(chan *Reading, bufSize),
	}
	p.C = p.cC
	p.CBuf = p.cBuf
	return p, nil
}

// Poll performs exactly one read and projection.
func (p *Poller) Poll(t time.Time) *Reading {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.n++
	r := &Reading{T: t, N: p.n}
	if r.Err = p.imu.Read(); r.Err != nil {
		log.Warnf("poller: error reading imu: %s", r.Err)
	}
	r.Accel, r.Gyro, r.Temp = p.imu.Events()
	ms := t.UnixMilli()
	r.Accel.Timestamp, r.Gyro.Timestamp, r.Temp.Timestamp = ms, ms, ms
	p.latest = r
	return r
}

// Latest returns the most recent reading, or nil before the first poll.
func (p *Poller) Latest() *Reading {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Count returns the number of polls so far.
func (p *Poller) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

// Sensors returns the IMU's static metadata.
func (p *Poller) Sensors() (accel, gyro, temp sensors.Info) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imu.Sensors()
}

// Do runs f with exclusive access to the IMU, between polls.
func (p *Poller) Do(f func(imu sensors.IMU) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return f(p.imu)
}

// Run polls until ctx is done, then closes C and CBuf.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.cC)
	defer close(p.cBuf)

	clock := time.NewTicker(p.interval)
	defer clock.Stop()

	var cur *Reading
	for {
		var out chan *Reading
		if cur != nil {
			out = p.cC
		}
		select {
		case t := <-clock.C:
			cur = p.Poll(t)
			push(p.cBuf, cur)
		case out <- cur: // Send the latest values
		case <-ctx.Done():
			log.Debugln("poller: stopped after", p.Count(), "polls")
			return
		}
	}
}

// push adds r to buf, removing the oldest value first if buf is full.
// Only one goroutine may push to a given buf.
func push(buf chan *Reading, r *Reading) {
	select {
	case buf <- r:
	default:
		select {
		case <-buf:
		default:
		}
		buf <- r
	}
}
