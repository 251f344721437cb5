package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/sensors"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "measure and save sensor offsets",
	Long: `calibrate takes calibration.samples readings with the device at rest and
level, computes the gyro and accelerometer offsets and saves them as JSON to
calibration.file (or --output). serve, read and watch load that file at start.
`,
	Example: `  mpu6050 calibrate -o /etc/mpu6050_cal.json`,
	RunE:    runCalibrate,
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Calibration.File
	}

	mpu, closer, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Infof("calibrate: taking %d samples, keep the device still and level", cfg.Calibration.Samples)
	cal, err := mpu.Calibrate(cfg.Calibration.Samples, cfg.PollInterval())
	if err != nil {
		return err
	}
	if err := cal.Save(output); err != nil {
		return err
	}
	printCal(cal)
	log.Infoln("calibrate: saved to", output)
	return nil
}

func printCal(cal sensors.IMUCalData) {
	fmt.Printf("accel offsets (g):     %8.4f %8.4f %8.4f\n", cal.A01, cal.A02, cal.A03)
	fmt.Printf("gyro offsets (deg/s):  %8.3f %8.3f %8.3f\n", cal.G01, cal.G02, cal.G03)
}
