package main

import (
	"fmt"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/poller"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "show live readings in the terminal",
	Long:    "watch polls the device and shows the latest reading in a table. Press q to quit.",
	Example: `  mpu6050 watch --range 8g`,
	RunE:    runWatch,
}

var watchHeader = []string{"Sensor", "X", "Y", "Z"}

func getTable() *widgets.Table {
	table := widgets.NewTable()
	table.Title = "MPU6050"
	table.Rows = [][]string{watchHeader, {"accel m/s^2"}, {"gyro deg/s"}, {"temp deg C"}, {"poll"}}
	table.ColumnWidths = []int{14, 12, 12, 12}
	table.TextStyle = ui.NewStyle(ui.ColorWhite)
	table.TextAlignment = ui.AlignRight
	table.SetRect(0, 0, 54, 12)
	return table
}

func updateTable(table *widgets.Table, r *poller.Reading) {
	a, g := r.Accel.Acceleration, r.Gyro.Gyro
	table.Rows[1] = []string{"accel m/s^2", fmt.Sprintf("%.3f", a.X), fmt.Sprintf("%.3f", a.Y), fmt.Sprintf("%.3f", a.Z)}
	table.Rows[2] = []string{"gyro deg/s", fmt.Sprintf("%.2f", g.X), fmt.Sprintf("%.2f", g.Y), fmt.Sprintf("%.2f", g.Z)}
	table.Rows[3] = []string{"temp deg C", fmt.Sprintf("%.2f", r.Temp.Temperature), "", ""}
	status := fmt.Sprintf("%d", r.N)
	if r.Err != nil {
		status += " (read error)"
	}
	table.Rows[4] = []string{"poll", status, "", ""}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mpu, closer, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := poller.New(mpu, cfg.PollInterval(), 1)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	go p.Run(ctx)

	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}
	defer ui.Close()

	table := getTable()
	ui.Render(table)
	uiEvents := ui.PollEvents()
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}
		case r, ok := <-p.CBuf:
			if !ok {
				return nil
			}
			updateTable(table, r)
			ui.Render(table)
		case <-ctx.Done():
			return nil
		}
	}
}
