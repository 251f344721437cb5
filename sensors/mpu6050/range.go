package mpu6050

import (
	"fmt"
	"strings"
)

// AccelRange is the accelerometer full-scale range, stored on the chip as
// the 2-bit AFS_SEL code.
type AccelRange byte

const (
	Range2G AccelRange = iota
	Range4G
	Range8G
	Range16G
)

func (r AccelRange) String() string {
	return [...]string{"2G", "4G", "8G", "16G"}[r&0x03]
}

// Gs returns the full-scale magnitude in g.
func (r AccelRange) Gs() int {
	return 2 << (r & 0x03)
}

// scale returns the sensitivity in LSB/g.
func (r AccelRange) scale() float64 {
	switch r & 0x03 {
	case Range16G:
		return 2048
	case Range8G:
		return 4096
	case Range4G:
		return 8192
	}
	return 16384
}

// ParseRange accepts "2", "2g" or "2G" style names, and the same for 4, 8 and 16.
func ParseRange(s string) (AccelRange, error) {
	switch strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), "G") {
	case "2":
		return Range2G, nil
	case "4":
		return Range4G, nil
	case "8":
		return Range8G, nil
	case "16":
		return Range16G, nil
	}
	return Range2G, fmt.Errorf("MPU6050 Error: %q is not a valid accel range", s)
}

// AccelerometerRange reads the range currently configured on the chip.
func (mpu *MPU6050) AccelerometerRange() (AccelRange, error) {
	cfg, err := mpu.i2cRead(MPUREG_ACCEL_CONFIG)
	if err != nil {
		return Range2G, err
	}
	return AccelRange((cfg & BITS_AFS_SEL_MASK) >> BITS_AFS_SEL_SHIFT), nil
}

// SetAccelerometerRange writes the range field of ACCEL_CONFIG, leaving
// the register's other bits as they were.
func (mpu *MPU6050) SetAccelerometerRange(r AccelRange) error {
	cfg, err := mpu.i2cRead(MPUREG_ACCEL_CONFIG)
	if err != nil {
		return err
	}
	cfg &^= BITS_AFS_SEL_MASK
	cfg |= (byte(r) << BITS_AFS_SEL_SHIFT) & BITS_AFS_SEL_MASK
	return mpu.i2cWrite(MPUREG_ACCEL_CONFIG, cfg)
}
