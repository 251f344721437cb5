package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/config"
)

var rootCmd = &cobra.Command{
	Use:   "mpu6050",
	Short: "read an MPU6050 accelerometer/gyro over I2C",
	Long: `mpu6050 drives an InvenSense MPU6050 on an I2C bus and publishes its
acceleration, rotation and temperature readings.

Configuration is read, in order, from the path in --config, the path in the
MPU6050_CONFIG environment variable, or config.yaml in $HOME/.config/mpu6050,
/etc/mpu6050 or the current directory. MPU6050_* environment variables and
command line flags override file values.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// loadConfig loads the configuration for cmd and applies its log level.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return cfg, err
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func deviceFlags(cmd *cobra.Command) {
	cmd.Flags().Int("bus", 1, "I2C bus number")
	cmd.Flags().String("driver", config.DriverEmbd, "bus driver: embd, i2cdev, go-i2c or periph")
	cmd.Flags().Int("address", 0x68, "device address, 104 (0x68) or 105 (0x69)")
	cmd.Flags().String("range", "2g", "accelerometer range: 2g, 4g, 8g or 16g")
}

func main() {
	rootCmd.PersistentFlags().String("config", "", "configuration file path")
	rootCmd.PersistentFlags().Bool("debug", false, "toggle debug logging")

	deviceFlags(serveCmd)
	serveCmd.Flags().String("listen", "", "web API listen address, enables the web API")
	serveCmd.Flags().String("csv", "", "write readings to this CSV file")
	rootCmd.AddCommand(serveCmd)

	deviceFlags(readCmd)
	readCmd.Flags().IntP("count", "n", 10, "number of readings, 0 for no limit")
	rootCmd.AddCommand(readCmd)

	probeCmd.Flags().Int("bus", 1, "I2C bus number")
	probeCmd.Flags().String("driver", config.DriverEmbd, "bus driver: embd, i2cdev, go-i2c or periph")
	rootCmd.AddCommand(probeCmd)

	initCmd.Flags().Bool("print", false, "print config to stdout")
	initCmd.Flags().BoolP("yes", "y", false, "overwrite an existing file")
	initCmd.Flags().StringP("output", "o", config.DefaultConfig, "output path")
	rootCmd.AddCommand(initCmd)

	deviceFlags(calibrateCmd)
	calibrateCmd.Flags().StringP("output", "o", "", "calibration file, defaults to calibration.file")
	rootCmd.AddCommand(calibrateCmd)

	deviceFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
