package mpu6050

import (
	"github.com/Solutions16/sol16-MPU6050/sensors"
)

// Events projects the latest sample onto the accelerometer, gyro and
// temperature events. Timestamps are left zero for the caller to fill in.
func (mpu *MPU6050) Events() (accel, gyro, temp sensors.Event) {
	c := mpu.converted

	accel = sensors.Event{
		Version:  sensors.EventVersion,
		SensorID: mpu.sensorIDAccel,
		Type:     sensors.TypeAccelerometer,
		Acceleration: sensors.Vector{
			X: c.AccelX * sensors.StandardGravity,
			Y: c.AccelY * sensors.StandardGravity,
			Z: c.AccelZ * sensors.StandardGravity,
		},
	}

	gyro = sensors.Event{
		Version:  sensors.EventVersion,
		SensorID: mpu.sensorIDGyro,
		Type:     sensors.TypeGyroscope,
		Gyro:     sensors.Vector{X: c.GyroX, Y: c.GyroY, Z: c.GyroZ},
	}

	temp = sensors.Event{
		Version:     sensors.EventVersion,
		SensorID:    mpu.sensorIDTemp,
		Type:        sensors.TypeAmbientTemperature,
		Temperature: c.Temp,
	}
	return
}

// Sensors describes the three logical sensors of the chip.
func (mpu *MPU6050) Sensors() (accel, gyro, temp sensors.Info) {
	accel = sensors.Info{Name: "MPU6050_A", Version: 1, SensorID: mpu.sensorIDAccel, Type: sensors.TypeAccelerometer}
	gyro = sensors.Info{Name: "MPU6050_G", Version: 1, SensorID: mpu.sensorIDGyro, Type: sensors.TypeGyroscope}
	temp = sensors.Info{Name: "MPU6050_T", Version: 1, SensorID: mpu.sensorIDTemp, Type: sensors.TypeAmbientTemperature}
	return
}
