package sensors

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var eventLogHeader = []string{"timestamp", "a1", "a2", "a3", "g1", "g2", "g3", "temp"}

// EventLogger writes accel/gyro/temperature event triples as CSV rows.
type EventLogger struct {
	w      io.Writer
	c      io.Closer
	Header []string
	fmt    string
}

func NewEventLogger(w io.Writer) (l *EventLogger, err error) {
	l = &EventLogger{w: w, Header: eventLogHeader}
	if _, err = fmt.Fprint(l.w, strings.Join(l.Header, ","), "\n"); err != nil {
		return nil, err
	}
	s := strings.Repeat("%f,", len(l.Header)-1)
	l.fmt = "%d," + s[:len(s)-1] + "\n"
	return
}

// CreateEventLogger truncates filename and logs to it.
func CreateEventLogger(filename string) (*EventLogger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	l, err := NewEventLogger(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	l.c = f
	return l, nil
}

// Log writes one row, timestamped with the accelerometer event's time.
func (l *EventLogger) Log(accel, gyro, temp Event) error {
	_, err := fmt.Fprintf(l.w, l.fmt, accel.Timestamp,
		accel.Acceleration.X, accel.Acceleration.Y, accel.Acceleration.Z,
		gyro.Gyro.X, gyro.Gyro.Y, gyro.Gyro.Z,
		temp.Temperature)
	return err
}

func (l *EventLogger) Close() error {
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
