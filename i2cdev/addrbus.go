package i2cdev

import (
	"fmt"
	"sync"

	"github.com/d2r2/go-i2c"
	logger "github.com/d2r2/go-logger"
)

// regDevice is one address on the bus as github.com/d2r2/go-i2c exposes it.
type regDevice interface {
	ReadRegU8(reg byte) (byte, error)
	ReadRegBytes(reg byte, n int) ([]byte, int, error)
	WriteRegU8(reg byte, value byte) error
	Close() error
}

/*
AddrBus adapts github.com/d2r2/go-i2c, which binds a handle to a single
address, to the address-per-call register access of Bus. A handle is opened
on first use of each address and kept until Close.
*/
type AddrBus struct {
	Number int

	mu   sync.Mutex
	devs map[byte]regDevice
	open func(addr byte, bus int) (regDevice, error)
}

// NewAddrBus returns an AddrBus for /dev/i2c-n. Nothing is opened until the
// first transaction. go-i2c logs every transfer at debug level; that is
// turned down to warnings.
func NewAddrBus(n int) *AddrBus {
	logger.ChangePackageLogLevel("i2c", logger.WarnLevel)
	return &AddrBus{
		Number: n,
		devs:   make(map[byte]regDevice),
		open: func(addr byte, bus int) (regDevice, error) {
			return i2c.NewI2C(addr, bus)
		},
	}
}

func (b *AddrBus) device(addr byte) (regDevice, error) {
	if d, ok := b.devs[addr]; ok {
		return d, nil
	}
	d, err := b.open(addr, b.Number)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open address %#02x on bus %d: %w", addr, b.Number, err)
	}
	b.devs[addr] = d
	return d, nil
}

func (b *AddrBus) ReadByteFromReg(addr, reg byte) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.device(addr)
	if err != nil {
		return 0, err
	}
	return d.ReadRegU8(reg)
}

func (b *AddrBus) ReadFromReg(addr, reg byte, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.device(addr)
	if err != nil {
		return err
	}
	buf, n, err := d.ReadRegBytes(reg, len(value))
	if err != nil {
		return err
	}
	if n != len(value) {
		return fmt.Errorf("i2cdev: short read at %#02x: %d of %d bytes", addr, n, len(value))
	}
	copy(value, buf)
	return nil
}

func (b *AddrBus) WriteByteToReg(addr, reg, value byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.device(addr)
	if err != nil {
		return err
	}
	return d.WriteRegU8(reg, value)
}

// Close closes every handle opened so far and returns the first error.
func (b *AddrBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var first error
	for addr, d := range b.devs {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.devs, addr)
	}
	return first
}
