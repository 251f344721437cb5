package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Solutions16/sol16-MPU6050/sensors"
)

type fakeIMU struct {
	reads int
	fail  bool
}

func (f *fakeIMU) Read() error {
	f.reads++
	if f.fail {
		return errors.New("bus error")
	}
	return nil
}

func (f *fakeIMU) Events() (accel, gyro, temp sensors.Event) {
	accel = sensors.Event{SensorID: 1, Type: sensors.TypeAccelerometer, Acceleration: sensors.Vector{Z: float64(f.reads)}}
	gyro = sensors.Event{SensorID: 2, Type: sensors.TypeGyroscope}
	temp = sensors.Event{SensorID: 3, Type: sensors.TypeAmbientTemperature, Temperature: 25}
	return
}

func (f *fakeIMU) Sensors() (accel, gyro, temp sensors.Info) {
	return sensors.Info{Name: "A"}, sensors.Info{Name: "G"}, sensors.Info{Name: "T"}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, time.Second, 1); err == nil {
		t.Error("expected error for nil imu")
	}
	if _, err := New(&fakeIMU{}, 0, 1); err == nil {
		t.Error("expected error for zero interval")
	}
	p, err := New(&fakeIMU{}, time.Second, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cap(p.cBuf) != DefaultBufSize {
		t.Errorf("default buffer size: got %d", cap(p.cBuf))
	}
}

func TestPollStampsEvents(t *testing.T) {
	imu := &fakeIMU{}
	p, _ := New(imu, time.Second, 4)
	if p.Latest() != nil {
		t.Error("expected no reading before first poll")
	}

	at := time.UnixMilli(1700000000123)
	r := p.Poll(at)
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	for _, e := range []sensors.Event{r.Accel, r.Gyro, r.Temp} {
		if e.Timestamp != 1700000000123 {
			t.Errorf("%s timestamp: got %d", e.Type, e.Timestamp)
		}
	}
	if r.N != 1 || r.Accel.Acceleration.Z != 1 || r.Gyro.SensorID != 2 {
		t.Errorf("unexpected reading %+v", r)
	}
	if p.Latest() != r {
		t.Error("Latest should return the last poll")
	}

	imu.fail = true
	r = p.Poll(at.Add(time.Second))
	if r.Err == nil || r.N != 2 {
		t.Errorf("expected failed second poll, got %+v", r)
	}
}

func TestDoAndSensors(t *testing.T) {
	imu := &fakeIMU{}
	p, _ := New(imu, time.Second, 4)
	err := p.Do(func(i sensors.IMU) error { return i.Read() })
	if err != nil || imu.reads != 1 {
		t.Errorf("Do: err %v reads %d", err, imu.reads)
	}
	a, g, tmp := p.Sensors()
	if a.Name != "A" || g.Name != "G" || tmp.Name != "T" {
		t.Errorf("sensors: %v %v %v", a, g, tmp)
	}
}

func TestPushDropsOldest(t *testing.T) {
	buf := make(chan *Reading, 2)
	for i := 1; i <= 5; i++ {
		push(buf, &Reading{N: i})
	}
	if len(buf) != 2 {
		t.Fatalf("expected full buffer, got %d", len(buf))
	}
	if r := <-buf; r.N != 4 {
		t.Errorf("expected 4, got %d", r.N)
	}
	if r := <-buf; r.N != 5 {
		t.Errorf("expected 5, got %d", r.N)
	}
}

func TestRun(t *testing.T) {
	imu := &fakeIMU{}
	p, _ := New(imu, time.Millisecond, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	var last int
	for i := 0; i < 3; i++ {
		select {
		case r := <-p.CBuf:
			if r.N <= last {
				t.Errorf("readings out of order: %d after %d", r.N, last)
			}
			last = r.N
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a reading")
		}
	}
	select {
	case r := <-p.C:
		if r == nil || r.N < last {
			t.Errorf("unexpected current reading %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the current reading")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	for range p.CBuf {
	}
	if _, ok := <-p.C; ok {
		t.Error("C should be closed")
	}
	if n := p.Count(); n < last {
		t.Errorf("count %d below last reading %d", n, last)
	}
}
