package mpu6050

import (
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/Solutions16/sol16-MPU6050/sensors"
)

const (
	// Calibration variance tolerances
	MaxGyroVariance  = 10.0 // (deg/s)^2
	MaxAccelVariance = 10.0 // G^2
	// Largest mean accel offset, after removing 1G from Z, for a board that is sitting level
	MaxAccelOffset = 0.5 // G
)

var (
	ErrNotInertial = errors.New("MPU6050 Calibration Error: sensor was not inertial during calibration")
	ErrNotLevel    = errors.New("MPU6050 Calibration Error: sensor is not level")
)

/*
Calibrate takes n samples interval apart with the board at rest, Z axis up,
and returns the gyro and accel offsets that would zero them (1G on Z).
The offsets are not applied; pass them to SetCalibration. Readings are taken
without any current offsets. The offsets and the latest sample are restored
before returning.
*/
func (mpu *MPU6050) Calibrate(n int, interval time.Duration) (cal sensors.IMUCalData, err error) {
	if n < 2 {
		return cal, fmt.Errorf("MPU6050 Calibration Error: need at least 2 samples, got %d", n)
	}

	prev, raw, converted := mpu.cal, mpu.raw, mpu.converted
	mpu.cal = sensors.IMUCalData{}
	defer func() {
		mpu.cal, mpu.raw, mpu.converted = prev, raw, converted
	}()

	var axes [6][]float64
	for j := range axes {
		axes[j] = make([]float64, 0, n)
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		_, c, err := mpu.ReadSample()
		if err != nil {
			return cal, err
		}
		for j, v := range [6]float64{c.GyroX, c.GyroY, c.GyroZ, c.AccelX, c.AccelY, c.AccelZ - 1} {
			axes[j] = append(axes[j], v)
		}
	}

	var mean, variance [6]float64
	for j := range axes {
		mean[j], variance[j] = stat.MeanVariance(axes[j], nil)
	}
	log.Debugf("MPU6050 Calibration: %d values collected", n)
	log.Debugf("MPU6050 Calibration: gyro variance:  %f %f %f", variance[0], variance[1], variance[2])
	log.Debugf("MPU6050 Calibration: accel variance: %f %f %f", variance[3], variance[4], variance[5])

	for j := 3; j < 6; j++ {
		if math.Abs(mean[j]) > MaxAccelOffset {
			return cal, fmt.Errorf("%w: accel offsets %6f %6f %6f", ErrNotLevel, mean[3], mean[4], mean[5])
		}
	}
	for j := 0; j < 6; j++ {
		if (j < 3 && variance[j] > MaxGyroVariance) || (j >= 3 && variance[j] > MaxAccelVariance) {
			return cal, ErrNotInertial
		}
	}

	cal = sensors.IMUCalData{
		G01: mean[0], G02: mean[1], G03: mean[2],
		A01: mean[3], A02: mean[4], A03: mean[5],
	}
	log.Infof("MPU6050 Gyro Calibration: %6f, %6f, %6f", cal.G01, cal.G02, cal.G03)
	log.Infof("MPU6050 Accel Calibration: %6f, %6f, %6f", cal.A01, cal.A02, cal.A03)
	return cal, nil
}
