// Package i2cdev provides register buses for the MPU6050 driver besides
// embd. Bus talks to the Linux i2c-dev interface (/dev/i2c-N) directly and
// needs no board detection. AddrBus and PeriphBus wrap the go-i2c and
// periph.io libraries.
package i2cdev

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// I2C_SLAVE from linux/i2c-dev.h
const ioctlI2CSlave = 0x0703

// device is the file-level access the bus needs.
type device interface {
	SetSlave(addr byte) error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

type fdDevice int

func (fd fdDevice) SetSlave(addr byte) error {
	return unix.IoctlSetInt(int(fd), ioctlI2CSlave, int(addr))
}

func (fd fdDevice) Read(p []byte) (int, error)  { return unix.Read(int(fd), p) }
func (fd fdDevice) Write(p []byte) (int, error) { return unix.Write(int(fd), p) }
func (fd fdDevice) Close() error                { return unix.Close(int(fd)) }

// Bus is one i2c adapter. It is safe for concurrent use; each register
// transaction holds the bus for its duration.
type Bus struct {
	Path string

	mu    sync.Mutex
	dev   device
	slave int // currently selected address, -1 for none
}

// Open opens /dev/i2c-n.
func Open(n int) (*Bus, error) {
	path := fmt.Sprintf("/dev/i2c-%d", n)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open %s: %w", path, err)
	}
	return newBus(path, fdDevice(fd)), nil
}

func newBus(path string, dev device) *Bus {
	return &Bus{Path: path, dev: dev, slave: -1}
}

func (b *Bus) selectSlave(addr byte) error {
	if b.slave == int(addr) {
		return nil
	}
	if err := b.dev.SetSlave(addr); err != nil {
		b.slave = -1
		return fmt.Errorf("i2cdev: select address %#02x on %s: %w", addr, b.Path, err)
	}
	b.slave = int(addr)
	return nil
}

func (b *Bus) write(p []byte) error {
	n, err := b.dev.Write(p)
	if err != nil {
		return fmt.Errorf("i2cdev: write %s: %w", b.Path, err)
	}
	if n != len(p) {
		return fmt.Errorf("i2cdev: short write on %s: %d of %d bytes", b.Path, n, len(p))
	}
	return nil
}

// ReadFromReg reads len(value) consecutive registers starting at reg.
func (b *Bus) ReadFromReg(addr, reg byte, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.selectSlave(addr); err != nil {
		return err
	}
	if err := b.write([]byte{reg}); err != nil {
		return err
	}
	for got := 0; got < len(value); {
		n, err := b.dev.Read(value[got:])
		if err != nil {
			return fmt.Errorf("i2cdev: read %s: %w", b.Path, err)
		}
		if n == 0 {
			return fmt.Errorf("i2cdev: short read on %s: %d of %d bytes", b.Path, got, len(value))
		}
		got += n
	}
	return nil
}

func (b *Bus) ReadByteFromReg(addr, reg byte) (byte, error) {
	v := make([]byte, 1)
	if err := b.ReadFromReg(addr, reg, v); err != nil {
		return 0, err
	}
	return v[0], nil
}

// WriteToReg writes value to consecutive registers starting at reg.
func (b *Bus) WriteToReg(addr, reg byte, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.selectSlave(addr); err != nil {
		return err
	}
	return b.write(append([]byte{reg}, value...))
}

func (b *Bus) WriteByteToReg(addr, reg, value byte) error {
	return b.WriteToReg(addr, reg, []byte{value})
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev.Close()
}
