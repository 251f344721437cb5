// Package mpu6050 drives an InvenSense MPU6050 accelerometer/gyro over I2C.
package mpu6050

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Solutions16/sol16-MPU6050/sensors"
)

const (
	DefaultResetAttempts     = 100
	DefaultResetPollInterval = 10 * time.Millisecond
	DefaultSettleDelay       = 100 * time.Millisecond
)

// Bus is the register access the driver needs. embd.I2CBus satisfies it,
// as does i2cdev.Bus.
type Bus interface {
	ReadByteFromReg(addr, reg byte) (value byte, err error)
	ReadFromReg(addr, reg byte, value []byte) error
	WriteByteToReg(addr, reg, value byte) error
}

// Options tunes the reset handshake. The zero value of any field selects its default.
type Options struct {
	ResetAttempts     int           // Polls of PWR_MGMT_1 before giving up
	ResetPollInterval time.Duration // Sleep between polls
	SettleDelay       time.Duration // Sleep after the clock source is set
}

func (o *Options) withDefaults() Options {
	var r Options
	if o != nil {
		r = *o
	}
	if r.ResetAttempts <= 0 {
		r.ResetAttempts = DefaultResetAttempts
	}
	if r.ResetPollInterval <= 0 {
		r.ResetPollInterval = DefaultResetPollInterval
	}
	if r.SettleDelay <= 0 {
		r.SettleDelay = DefaultSettleDelay
	}
	return r
}

/*
MPU6050 represents an InvenSense MPU6050 6DoF chip.
It is not safe for concurrent use; callers sharing one must serialize access.
*/
type MPU6050 struct {
	bus     Bus
	Address byte

	sensorIDAccel, sensorIDGyro, sensorIDTemp int32
	scaleGyro                                 float64 // LSB per deg/s, fixed by the init gyro range

	cal       sensors.IMUCalData
	raw       RawSample
	converted ConvertedSample
}

/*
NewMPU6050 verifies the chip at address, resets it and applies the baseline
configuration: no sample rate division, DLPF off, gyro +/-500 dps, accel +/-2g,
clock from the X gyro PLL. sensorID is the accelerometer's ID; the gyro and
temperature sensors take the next two. opts may be nil.
*/
func NewMPU6050(bus Bus, address byte, sensorID int32, opts *Options) (*MPU6050, error) {
	o := opts.withDefaults()
	mpu := &MPU6050{
		bus:     bus,
		Address: address,
	}

	// Make sure we're talking to the right chip
	if err := mpu.checkIdentity(); err != nil {
		return nil, err
	}

	mpu.sensorIDAccel = sensorID
	mpu.sensorIDGyro = sensorID + 1
	mpu.sensorIDTemp = sensorID + 2
	mpu.scaleGyro = scaleGyro500

	if err := mpu.i2cWrite(MPUREG_PWR_MGMT_1, BIT_H_RESET); err != nil {
		return nil, err
	}
	if err := mpu.waitForReset(o.ResetAttempts, o.ResetPollInterval); err != nil {
		return nil, err
	}

	for _, w := range []struct{ reg, value byte }{
		{MPUREG_SMPLRT_DIV, 0x00},
		{MPUREG_CONFIG, BITS_DLPF_CFG_260HZ},
		{MPUREG_GYRO_CONFIG, BITS_FS_500DPS},
		{MPUREG_ACCEL_CONFIG, BITS_FS_2G},
		{MPUREG_PWR_MGMT_1, MPU_CLK_SEL_PLLGYROX},
	} {
		if err := mpu.i2cWrite(w.reg, w.value); err != nil {
			return nil, err
		}
	}

	time.Sleep(o.SettleDelay)
	log.Debugf("MPU6050: initialized at address %#02x, sensor ids %d/%d/%d",
		address, mpu.sensorIDAccel, mpu.sensorIDGyro, mpu.sensorIDTemp)
	return mpu, nil
}

// Probe reports whether an MPU6050 answers at address, without touching
// its configuration.
func Probe(bus Bus, address byte) error {
	return (&MPU6050{bus: bus, Address: address}).checkIdentity()
}

func (mpu *MPU6050) checkIdentity() error {
	id, err := mpu.i2cRead(MPUREG_WHOAMI)
	if err != nil {
		return err
	}
	if id != MPU6050_DEVICE_ID {
		return fmt.Errorf("%w: got %#02x at address %#02x", ErrIdentityMismatch, id, mpu.Address)
	}
	return nil
}

func (mpu *MPU6050) waitForReset(attempts int, interval time.Duration) error {
	for i := 0; i < attempts; i++ {
		v, err := mpu.i2cRead(MPUREG_PWR_MGMT_1)
		if err != nil {
			return err
		}
		if v == BIT_SLEEP {
			log.Debugf("MPU6050: reset complete after %d polls", i+1)
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("%w: PWR_MGMT_1 not %#02x after %d polls", ErrResetTimeout, BIT_SLEEP, attempts)
}

// SensorIDs returns the accelerometer, gyro and temperature sensor IDs.
func (mpu *MPU6050) SensorIDs() (accel, gyro, temp int32) {
	return mpu.sensorIDAccel, mpu.sensorIDGyro, mpu.sensorIDTemp
}

// Calibration returns the offsets currently subtracted from converted readings.
func (mpu *MPU6050) Calibration() sensors.IMUCalData {
	return mpu.cal
}

// SetCalibration replaces the offsets subtracted from converted readings.
// It takes effect from the next ReadSample.
func (mpu *MPU6050) SetCalibration(cal sensors.IMUCalData) {
	mpu.cal = cal
}

func (mpu *MPU6050) i2cWrite(register, value byte) error {
	if err := mpu.bus.WriteByteToReg(mpu.Address, register, value); err != nil {
		return &BusError{Op: "write", Addr: mpu.Address, Reg: register, Err: err}
	}
	return nil
}

func (mpu *MPU6050) i2cRead(register byte) (byte, error) {
	v, err := mpu.bus.ReadByteFromReg(mpu.Address, register)
	if err != nil {
		return 0, &BusError{Op: "read", Addr: mpu.Address, Reg: register, Err: err}
	}
	return v, nil
}

func (mpu *MPU6050) i2cReadBytes(register byte, buf []byte) error {
	if err := mpu.bus.ReadFromReg(mpu.Address, register, buf); err != nil {
		return &BusError{Op: "read", Addr: mpu.Address, Reg: register, Err: err}
	}
	return nil
}
