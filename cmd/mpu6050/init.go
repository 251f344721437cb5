package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/config"
)

var initCmd = &cobra.Command{
	Use:        "init",
	SuggestFor: []string{"ini", "in"},
	Short:      "write a configuration template",
	Long: `init writes the effective configuration, defaults merged with any existing
file, environment and flags, as yaml.
If --print is set the configuration is printed to stdout.
Otherwise it is written to --output, $HOME/.config/mpu6050/config.yaml by
default. An existing file is only replaced with --yes.
`,
	Example: `  mpu6050 init --print
  mpu6050 init -o /etc/mpu6050/config.yaml -y`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetBool("print"); p {
		buf, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(buf))
		return nil
	}
	output, _ := cmd.Flags().GetString("output")
	overwrite, _ := cmd.Flags().GetBool("yes")
	return config.Dump(cfg, output, overwrite)
}
