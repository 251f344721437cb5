package i2cdev

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// txBus is the part of periph's i2c.BusCloser that PeriphBus uses.
type txBus interface {
	Tx(addr uint16, w, r []byte) error
	Close() error
}

// PeriphBus is a register bus on top of a periph.io I2C bus. Each register
// access is a single combined write-then-read transaction.
type PeriphBus struct {
	Name string
	bus  txBus
}

// OpenPeriph initializes the periph host drivers and opens I2C bus n.
func OpenPeriph(n int) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2cdev: periph host init: %w", err)
	}
	name := strconv.Itoa(n)
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: periph open bus %s: %w", name, err)
	}
	return &PeriphBus{Name: name, bus: b}, nil
}

func (b *PeriphBus) ReadFromReg(addr, reg byte, value []byte) error {
	return b.bus.Tx(uint16(addr), []byte{reg}, value)
}

func (b *PeriphBus) ReadByteFromReg(addr, reg byte) (byte, error) {
	var v [1]byte
	if err := b.bus.Tx(uint16(addr), []byte{reg}, v[:]); err != nil {
		return 0, err
	}
	return v[0], nil
}

func (b *PeriphBus) WriteByteToReg(addr, reg, value byte) error {
	return b.bus.Tx(uint16(addr), []byte{reg, value}, nil)
}

func (b *PeriphBus) Close() error {
	return b.bus.Close()
}
