package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lsnmpvs/lsnmpvs/manager"
)

func init() {
	rootCmd.AddCommand(deviceInfoCmd)
}

var deviceInfoCmd = &cobra.Command{
	Use:   "device-info <endpoint>",
	Short: "get the device group (1.x) from an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runDeviceInfo(args[0])
	},
}

func runDeviceInfo(endpoint string) error {
	c, err := dialEndpoint(endpoint)
	if err != nil {
		return err
	}
	defer c.Close()

	info, err := manager.GetDeviceInfo(c)
	if err != nil {
		return err
	}

	statusColor := color.New(color.FgGreen)
	if info.OperStatus != 1 {
		statusColor = color.New(color.FgRed)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"L-MIB ID", fmt.Sprintf("%d", info.LMibID)})
	table.Append([]string{"Device ID", info.DeviceID})
	table.Append([]string{"Device Type", info.DeviceType})
	table.Append([]string{"Beacon Period (s)", fmt.Sprintf("%d", info.BeaconSecs)})
	table.Append([]string{"Sensor Count", fmt.Sprintf("%d", info.SensorCount)})
	table.Append([]string{"Uptime", info.Uptime.String()})
	table.Append([]string{"Status", statusColor.Sprint(statusLabel(info.OperStatus))})
	table.Render()
	return nil
}
