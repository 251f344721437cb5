package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	log "github.com/sirupsen/logrus"

	"github.com/Solutions16/sol16-MPU6050/config"
	"github.com/Solutions16/sol16-MPU6050/i2cdev"
	"github.com/Solutions16/sol16-MPU6050/sensors"
	"github.com/Solutions16/sol16-MPU6050/sensors/mpu6050"
)

type bus interface {
	mpu6050.Bus
	io.Closer
}

func openBus(driver string, n int) (bus, error) {
	switch driver {
	case config.DriverI2CDev:
		return i2cdev.Open(n)
	case config.DriverGoI2C:
		return i2cdev.NewAddrBus(n), nil
	case config.DriverPeriph:
		return i2cdev.OpenPeriph(n)
	case config.DriverEmbd:
		// NewI2CBus panics when the host has no embd I2C driver.
		if err := embd.InitI2C(); err != nil {
			return nil, fmt.Errorf("embd: %w", err)
		}
		return embd.NewI2CBus(byte(n)), nil
	}
	return nil, fmt.Errorf("unknown bus driver %q", driver)
}

// openDevice opens the configured bus, initializes the chip, applies the
// configured range and loads the calibration file if there is one. The
// caller closes the returned bus.
func openDevice(cfg config.Config) (*mpu6050.MPU6050, io.Closer, error) {
	b, err := openBus(cfg.Bus.Driver, cfg.Bus.Number)
	if err != nil {
		return nil, nil, err
	}
	mpu, err := mpu6050.NewMPU6050(b, byte(cfg.Device.Address), cfg.Device.SensorID, cfg.DeviceOptions())
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	if r := cfg.Range(); r != mpu6050.Range2G {
		if err := mpu.SetAccelerometerRange(r); err != nil {
			b.Close()
			return nil, nil, err
		}
	}

	var cal sensors.IMUCalData
	switch err := cal.Load(cfg.Calibration.File); {
	case err == nil:
		mpu.SetCalibration(cal)
		log.Infoln("loaded calibration from", cfg.Calibration.File)
	case errors.Is(err, fs.ErrNotExist):
		log.Debugln("no calibration file at", cfg.Calibration.File)
	default:
		log.Warnf("ignoring calibration file %s: %s", cfg.Calibration.File, err)
	}

	log.Infof("MPU6050 ready on bus %d (%s) at %#02x, range %s",
		cfg.Bus.Number, cfg.Bus.Driver, cfg.Device.Address, cfg.Range())
	return mpu, b, nil
}
