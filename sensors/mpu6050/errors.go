package mpu6050

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentityMismatch means WHO_AM_I did not read back as an MPU6050.
	// Retrying will not help; the address is wrong or nothing is attached.
	ErrIdentityMismatch = errors.New("MPU6050 Error: wrong chip id")
	// ErrResetTimeout means PWR_MGMT_1 never showed the post-reset value.
	ErrResetTimeout = errors.New("MPU6050 Error: timed out waiting for reset")
)

// BusError is a failed bus transaction against one register.
type BusError struct {
	Op   string // "read" or "write"
	Addr byte   // 7-bit device address
	Reg  byte
	Err  error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("MPU6050 Error: %s of register %#02x at address %#02x: %s", e.Op, e.Reg, e.Addr, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
