package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/poller"
	"github.com/Solutions16/sol16-MPU6050/sensors"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "print readings as CSV",
	Long: `read polls the device every poll.interval_ms and prints each reading to
stdout as a CSV row: timestamp in ms, acceleration in m/s^2, rotation in deg/s
and temperature in deg C. Failed reads are skipped.
`,
	Example: `  mpu6050 read -n 100 --range 4g`,
	RunE:    runRead,
}

func runRead(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")

	mpu, closer, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := poller.New(mpu, cfg.PollInterval(), 1)
	if err != nil {
		return err
	}
	out, err := sensors.NewEventLogger(os.Stdout)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	clock := time.NewTicker(cfg.PollInterval())
	defer clock.Stop()
	for n := 0; count == 0 || n < count; {
		select {
		case t := <-clock.C:
			r := p.Poll(t)
			if r.Err != nil {
				continue
			}
			if err := out.Log(r.Accel, r.Gyro, r.Temp); err != nil {
				return err
			}
			n++
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
