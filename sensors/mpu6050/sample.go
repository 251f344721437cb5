package mpu6050

import (
	"encoding/binary"
)

// RawSample is the 14-byte data block as signed register values.
type RawSample struct {
	AccelX, AccelY, AccelZ int16
	Temp                   int16
	GyroX, GyroY, GyroZ    int16
}

// ConvertedSample is a RawSample in physical units.
type ConvertedSample struct {
	AccelX, AccelY, AccelZ float64 // G
	Temp                   float64 // deg C
	GyroX, GyroY, GyroZ    float64 // deg/s
}

func decodeRaw(buf []byte) RawSample {
	w := func(i int) int16 { return int16(binary.BigEndian.Uint16(buf[2*i:])) }
	return RawSample{
		AccelX: w(0),
		AccelY: w(1),
		AccelZ: w(2),
		Temp:   w(3),
		GyroX:  w(4),
		GyroY:  w(5),
		GyroZ:  w(6),
	}
}

func (mpu *MPU6050) convert(raw RawSample, r AccelRange) ConvertedSample {
	scaleAccel := r.scale()
	return ConvertedSample{
		AccelX: float64(raw.AccelX)/scaleAccel - mpu.cal.A01,
		AccelY: float64(raw.AccelY)/scaleAccel - mpu.cal.A02,
		AccelZ: float64(raw.AccelZ)/scaleAccel - mpu.cal.A03,
		Temp:   (float64(raw.Temp) + tempOffset) / tempScale,
		GyroX:  float64(raw.GyroX)/mpu.scaleGyro - mpu.cal.G01,
		GyroY:  float64(raw.GyroY)/mpu.scaleGyro - mpu.cal.G02,
		GyroZ:  float64(raw.GyroZ)/mpu.scaleGyro - mpu.cal.G03,
	}
}

/*
ReadSample reads the accelerometer, temperature and gyro registers in one
transaction and converts them using the range currently set on the chip.
The result is also kept for Events. On error nothing is kept and the
previous sample stays current.
*/
func (mpu *MPU6050) ReadSample() (RawSample, ConvertedSample, error) {
	buf := make([]byte, dataBlockLen)
	if err := mpu.i2cReadBytes(MPUREG_ACCEL_XOUT_H, buf); err != nil {
		return RawSample{}, ConvertedSample{}, err
	}
	raw := decodeRaw(buf)

	r, err := mpu.AccelerometerRange()
	if err != nil {
		return RawSample{}, ConvertedSample{}, err
	}

	mpu.raw = raw
	mpu.converted = mpu.convert(raw, r)
	return mpu.raw, mpu.converted, nil
}

// Read refreshes the latest sample. It satisfies sensors.IMU.
func (mpu *MPU6050) Read() error {
	_, _, err := mpu.ReadSample()
	return err
}

// Latest returns the most recently read sample.
func (mpu *MPU6050) Latest() (RawSample, ConvertedSample) {
	return mpu.raw, mpu.converted
}
