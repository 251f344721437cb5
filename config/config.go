// Package config loads the mpu6050 tool configuration from a yaml file,
// MPU6050_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Solutions16/sol16-MPU6050/sensors"
	"github.com/Solutions16/sol16-MPU6050/sensors/mpu6050"
)

const DefaultAppName = "mpu6050"
const DefaultConfigName = "config"
const DefaultEnvConfig = "MPU6050_CONFIG"

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config", DefaultAppName, DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

const (
	DriverEmbd   = "embd"
	DriverI2CDev = "i2cdev"
	DriverGoI2C  = "go-i2c"
	DriverPeriph = "periph"
)

type BusOpt struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Number int    `yaml:"number" mapstructure:"number"`
}

type DeviceOpt struct {
	Address       int    `yaml:"address" mapstructure:"address"`
	SensorID      int32  `yaml:"sensor_id" mapstructure:"sensor_id"`
	Range         string `yaml:"range" mapstructure:"range"`
	ResetAttempts int    `yaml:"reset_attempts" mapstructure:"reset_attempts"`
	ResetPollMS   int    `yaml:"reset_poll_ms" mapstructure:"reset_poll_ms"`
	SettleMS      int    `yaml:"settle_ms" mapstructure:"settle_ms"`
}

type PollOpt struct {
	IntervalMS int `yaml:"interval_ms" mapstructure:"interval_ms"`
	Buffer     int `yaml:"buffer" mapstructure:"buffer"`
}

type CalibrationOpt struct {
	File    string `yaml:"file" mapstructure:"file"`
	Samples int    `yaml:"samples" mapstructure:"samples"`
}

type WebOpt struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Listen  string `yaml:"listen" mapstructure:"listen"`
}

type ModbusOpt struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	UnitID    int    `yaml:"unit_id" mapstructure:"unit_id"`
	Address   int    `yaml:"address" mapstructure:"address"`
	TimeoutMS int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
}

type LogOpt struct {
	CSV string `yaml:"csv" mapstructure:"csv"`
}

type Config struct {
	Bus         BusOpt         `yaml:"bus" mapstructure:"bus"`
	Device      DeviceOpt      `yaml:"device" mapstructure:"device"`
	Poll        PollOpt        `yaml:"poll" mapstructure:"poll"`
	Calibration CalibrationOpt `yaml:"calibration" mapstructure:"calibration"`
	Web         WebOpt         `yaml:"web" mapstructure:"web"`
	Modbus      ModbusOpt      `yaml:"modbus" mapstructure:"modbus"`
	Log         LogOpt         `yaml:"log" mapstructure:"log"`
	Debug       bool           `yaml:"debug" mapstructure:"debug"`
}

// defaults lists every key; Default and Load both read from it.
var defaults = map[string]interface{}{
	"bus.driver":            DriverEmbd,
	"bus.number":            1,
	"device.address":        mpu6050.MPU_ADDRESS1,
	"device.sensor_id":      0,
	"device.range":          mpu6050.Range2G.String(),
	"device.reset_attempts": mpu6050.DefaultResetAttempts,
	"device.reset_poll_ms":  int(mpu6050.DefaultResetPollInterval / time.Millisecond),
	"device.settle_ms":      int(mpu6050.DefaultSettleDelay / time.Millisecond),
	"poll.interval_ms":      10,
	"poll.buffer":           250,
	"calibration.file":      sensors.DefaultCalDataLocation,
	"calibration.samples":   500,
	"web.enabled":           false,
	"web.listen":            ":8000",
	"modbus.enabled":        false,
	"modbus.endpoint":       "",
	"modbus.unit_id":        1,
	"modbus.address":        0,
	"modbus.timeout_ms":     1000,
	"log.csv":               "",
	"debug":                 false,
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"debug":   "debug",
	"bus":     "bus.number",
	"driver":  "bus.driver",
	"address": "device.address",
	"range":   "device.range",
	"listen":  "web.listen",
	"csv":     "log.csv",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	if err := newViper().Unmarshal(&c); err != nil {
		panic(err)
	}
	return c
}

// Load resolves the configuration file in this order: the --config flag, the
// MPU6050_CONFIG environment variable, then the search path. Environment
// variables and flags set on cmd override file values.
func Load(cmd *cobra.Command) (Config, error) {
	v := newViper()

	if f, err := cmd.Flags().GetString("config"); err == nil && f != "" {
		v.SetConfigFile(f)
	} else if f := os.Getenv(DefaultEnvConfig); f != "" {
		v.SetConfigFile(f)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigSearchPath0)
		v.AddConfigPath(DefaultConfigSearchPath1)
		v.AddConfigPath(DefaultConfigSearchPath2)
	}

	v.SetEnvPrefix(DefaultAppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if fl := cmd.Flags().Lookup(flag); fl != nil {
			_ = v.BindPFlag(key, fl)
		}
	}

	if err := v.ReadInConfig(); err == nil {
		log.Debugln("using config file:", v.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		log.Debugln("no config file found, using defaults")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, c.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Bus.Driver {
	case DriverEmbd, DriverI2CDev, DriverGoI2C, DriverPeriph:
	default:
		return fmt.Errorf("config: unknown bus.driver %q", c.Bus.Driver)
	}
	if c.Bus.Number < 0 {
		return fmt.Errorf("config: bad bus.number %d", c.Bus.Number)
	}
	if c.Device.Address != mpu6050.MPU_ADDRESS1 && c.Device.Address != mpu6050.MPU_ADDRESS2 {
		return fmt.Errorf("config: device.address must be 0x68 or 0x69, got %#x", c.Device.Address)
	}
	if _, err := mpu6050.ParseRange(c.Device.Range); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Device.ResetAttempts < 1 {
		return errors.New("config: device.reset_attempts must be at least 1")
	}
	if c.Poll.IntervalMS <= 0 {
		return errors.New("config: poll.interval_ms must be > 0")
	}
	if c.Calibration.Samples < 2 {
		return errors.New("config: calibration.samples must be at least 2")
	}
	if c.Web.Enabled && c.Web.Listen == "" {
		return errors.New("config: web.listen required when web is enabled")
	}
	if c.Modbus.Enabled {
		if c.Modbus.Endpoint == "" {
			return errors.New("config: modbus.endpoint required when modbus is enabled")
		}
		if c.Modbus.UnitID < 0 || c.Modbus.UnitID > 255 {
			return fmt.Errorf("config: bad modbus.unit_id %d", c.Modbus.UnitID)
		}
		if c.Modbus.Address < 0 || c.Modbus.Address > 0xFFFF {
			return fmt.Errorf("config: bad modbus.address %d", c.Modbus.Address)
		}
	}
	return nil
}

// Range returns the configured accelerometer range. Call after Validate.
func (c Config) Range() mpu6050.AccelRange {
	r, _ := mpu6050.ParseRange(c.Device.Range)
	return r
}

func (c Config) DeviceOptions() *mpu6050.Options {
	return &mpu6050.Options{
		ResetAttempts:     c.Device.ResetAttempts,
		ResetPollInterval: time.Duration(c.Device.ResetPollMS) * time.Millisecond,
		SettleDelay:       time.Duration(c.Device.SettleMS) * time.Millisecond,
	}
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}

// Dump writes c as yaml to path, creating parent directories. Existing files
// are kept unless overwrite is set.
func Dump(c Config, p string, overwrite bool) error {
	buf, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(p), 0755); err != nil {
		return err
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(p, flags, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Infoln("writing configuration to", p)
	_, err = f.Write(buf)
	return err
}

func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
