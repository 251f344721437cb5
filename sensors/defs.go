package sensors

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultCalDataLocation is where calibration offsets are kept unless configured otherwise.
const DefaultCalDataLocation = "/etc/mpu6050_cal.json"

// StandardGravity converts g to m/s^2.
const StandardGravity = 9.80665

// EventVersion is carried by every Event; it matches the record size of the
// unified sensor event layout so consumers of that format can check it.
const EventVersion = 36

// SensorType tags an Event or Info with the physical quantity it reports.
// Values follow the unified sensor numbering.
type SensorType int32

const (
	TypeAccelerometer      SensorType = 1
	TypeGyroscope          SensorType = 4
	TypeAmbientTemperature SensorType = 13
)

func (t SensorType) String() string {
	switch t {
	case TypeAccelerometer:
		return "accelerometer"
	case TypeGyroscope:
		return "gyroscope"
	case TypeAmbientTemperature:
		return "ambient_temperature"
	}
	return fmt.Sprintf("SensorType(%d)", int32(t))
}

// Vector is a three-axis quantity in the sensor frame.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Event is one timestamped report from one logical sub-sensor.
// Only the field matching Type is populated.
type Event struct {
	Version      int32      `json:"version"`
	SensorID     int32      `json:"sensor_id"`
	Type         SensorType `json:"type"`
	Timestamp    int64      `json:"timestamp"`    // ms, zero until stamped by the caller
	Acceleration Vector     `json:"acceleration"` // m/s^2
	Gyro         Vector     `json:"gyro"`         // deg/s
	Temperature  float64    `json:"temperature"`  // deg C
}

// Info describes a logical sub-sensor. It carries no dynamic state.
type Info struct {
	Name       string     `json:"name"`
	Version    int32      `json:"version"`
	SensorID   int32      `json:"sensor_id"`
	Type       SensorType `json:"type"`
	MaxValue   float64    `json:"max_value"`
	MinValue   float64    `json:"min_value"`
	Resolution float64    `json:"resolution"`
	MinDelay   int32      `json:"min_delay"` // us
}

// IMU is a polled six-axis device projected onto unified events.
type IMU interface {
	Read() error                       // Refreshes the device's latest sample.
	Events() (accel, gyro, temp Event) // Projects the latest sample.
	Sensors() (accel, gyro, temp Info) // Static per-sensor metadata.
}

// IMUCalData holds offsets subtracted from converted readings.
type IMUCalData struct {
	A01, A02, A03 float64 // Accelerometer bias, G
	G01, G02, G03 float64 // Gyro bias, deg/s
}

func (d *IMUCalData) Reset() {
	*d = IMUCalData{}
}

// Save writes the offsets as JSON to path.
func (d *IMUCalData) Save(path string) error {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(0644))
	if err != nil {
		return fmt.Errorf("error saving imu calibration data to %s: %w", path, err)
	}
	defer fd.Close()
	calData, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("error marshaling imu calibration data: %w", err)
	}
	if _, err = fd.Write(calData); err != nil {
		return fmt.Errorf("error saving imu calibration data to %s: %w", path, err)
	}
	return nil
}

// Load reads offsets previously written by Save.
func (d *IMUCalData) Load(path string) error {
	errstr := "error reading imu calibration data from %s: %w"
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(errstr, path, err)
	}
	if err = json.Unmarshal(buf, d); err != nil {
		return fmt.Errorf(errstr, path, err)
	}
	return nil
}
