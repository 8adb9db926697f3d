package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lsnmpvs/lsnmpvs/manager"
)

func init() {
	rootCmd.AddCommand(sensorsCmd)
}

var sensorsCmd = &cobra.Command{
	Use:   "sensors <endpoint>",
	Short: "read the full sensor table (2.x) from an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSensors(args[0])
	},
}

func runSensors(endpoint string) error {
	c, err := dialEndpoint(endpoint)
	if err != nil {
		return err
	}
	defer c.Close()

	info, err := manager.GetDeviceInfo(c)
	if err != nil {
		return fmt.Errorf("get sensor count: %w", err)
	}
	rows, err := manager.ReadAllSensors(c, info.SensorCount)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Index", "ID", "Type", "Current", "Min", "Max", "Rate (0.1 Hz)", "Last Sample"})
	for _, row := range rows {
		table.Append([]string{
			fmt.Sprintf("%d", row.Index),
			row.ID,
			row.Type,
			fmt.Sprintf("%d", row.Current),
			fmt.Sprintf("%d", row.Min),
			fmt.Sprintf("%d", row.Max),
			fmt.Sprintf("%d", row.RateTenthsHz),
			row.LastSampleAgo.String(),
		})
	}
	table.Render()
	return nil
}
