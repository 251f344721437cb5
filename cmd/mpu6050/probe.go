package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/sensors/mpu6050"
)

var probeCmd = &cobra.Command{
	Use:        "probe",
	SuggestFor: []string{"pro", "pr", "prob"},
	Short:      "look for MPU6050s on the bus",
	Long: `probe reads WHO_AM_I at both MPU6050 addresses (0x68 and 0x69) and prints
what it finds. It does not reset or configure the chips.
`,
	Example: `  mpu6050 probe --bus 1`,
	RunE:    runProbe,
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	b, err := openBus(cfg.Bus.Driver, cfg.Bus.Number)
	if err != nil {
		return err
	}
	defer b.Close()

	found := 0
	for _, address := range []byte{mpu6050.MPU_ADDRESS1, mpu6050.MPU_ADDRESS2} {
		if err := mpu6050.Probe(b, address); err != nil {
			fmt.Printf("%#02x: no MPU6050: %s\n", address, err)
			continue
		}
		fmt.Printf("%#02x: MPU6050\n", address)
		found++
	}
	if found == 0 {
		return errors.New("no MPU6050 found")
	}
	return nil
}
