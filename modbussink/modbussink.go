// Package modbussink mirrors readings into holding registers on a Modbus TCP
// device, such as a PLC or a register-memory gateway.
package modbussink

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/Solutions16/sol16-MPU6050/poller"
)

// Register layout, relative to the configured start address. Each value is
// a fixed-point int16 in two's complement.
const (
	RegAccelX = iota // m/s^2 x100
	RegAccelY
	RegAccelZ
	RegGyroX // deg/s x10
	RegGyroY
	RegGyroZ
	RegTemp // deg C x100
	NumRegisters
)

const (
	accelFactor = 100
	gyroFactor  = 10
	tempFactor  = 100
)

// registerWriter is the exact contract the sink uses.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) (results []byte, err error)
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Address  uint16
	Timeout  time.Duration
}

// Sink writes each reading to one Modbus endpoint. It serializes requests.
type Sink struct {
	mu      sync.Mutex
	cfg     Config
	handler *modbus.TCPClientHandler
	client  registerWriter
}

func New(cfg Config) (*Sink, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbussink: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Sink{
		cfg:     cfg,
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler == nil {
		return nil
	}
	return s.handler.Close()
}

// Write stores r. Failed readings are skipped so the target keeps the
// last good values.
func (s *Sink) Write(r *poller.Reading) error {
	if r == nil || r.Err != nil {
		return nil
	}
	regs := Encode(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.client.WriteMultipleRegisters(s.cfg.Address, uint16(len(regs)), packRegisters(regs))
	return err
}

// Encode converts a reading to the register layout.
func Encode(r *poller.Reading) []uint16 {
	regs := make([]uint16, NumRegisters)
	regs[RegAccelX] = fixed(r.Accel.Acceleration.X, accelFactor)
	regs[RegAccelY] = fixed(r.Accel.Acceleration.Y, accelFactor)
	regs[RegAccelZ] = fixed(r.Accel.Acceleration.Z, accelFactor)
	regs[RegGyroX] = fixed(r.Gyro.Gyro.X, gyroFactor)
	regs[RegGyroY] = fixed(r.Gyro.Gyro.Y, gyroFactor)
	regs[RegGyroZ] = fixed(r.Gyro.Gyro.Z, gyroFactor)
	regs[RegTemp] = fixed(r.Temp.Temperature, tempFactor)
	return regs
}

// fixed scales v, rounds, and saturates to the int16 range.
func fixed(v, factor float64) uint16 {
	x := math.Round(v * factor)
	switch {
	case math.IsNaN(x):
		x = 0
	case x > math.MaxInt16:
		x = math.MaxInt16
	case x < math.MinInt16:
		x = math.MinInt16
	}
	return uint16(int16(x))
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
