package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lsnmpvs/lsnmpvs/manager"
)

func init() {
	rootCmd.AddCommand(setBeaconCmd, setSensorRateCmd, resetCmd)
}

var setBeaconCmd = &cobra.Command{
	Use:   "set-beacon <endpoint> <period-seconds>",
	Short: "set the device beacon period (field 1.4); 0 disables beacons",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		period, err := parseInt(args[1])
		if err != nil {
			return fmt.Errorf("period-seconds: %w", err)
		}
		c, err := dialEndpoint(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		if err := manager.ConfigureBeaconRate(c, period); err != nil {
			return err
		}
		fmt.Printf("beacon period set to %ds\n", period)
		return nil
	},
}

var setSensorRateCmd = &cobra.Command{
	Use:   "set-sensor-rate <endpoint> <sensor-index> <rate-tenths-hz>",
	Short: "set one sensor's sampling rate (field 2.7.k), in tenths of Hz",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		index, err := parseInt(args[1])
		if err != nil {
			return fmt.Errorf("sensor-index: %w", err)
		}
		rate, err := parseInt(args[2])
		if err != nil {
			return fmt.Errorf("rate-tenths-hz: %w", err)
		}
		c, err := dialEndpoint(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		if err := manager.ConfigureSensorRate(c, index, rate); err != nil {
			return err
		}
		fmt.Printf("sensor %d rate set to %d (0.1 Hz units)\n", index, rate)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <endpoint>",
	Short: "trigger a device reset (field 1.9)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := dialEndpoint(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		if err := manager.ResetDevice(c); err != nil {
			return err
		}
		fmt.Println("device reset")
		return nil
	},
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
