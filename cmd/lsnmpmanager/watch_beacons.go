package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	fmtjson "github.com/lsnmpvs/lsnmpvs/format/json"
	"github.com/lsnmpvs/lsnmpvs/manager"
	filetransport "github.com/lsnmpvs/lsnmpvs/transport/file"
)

func init() {
	rootCmd.AddCommand(watchBeaconsCmd)
	watchBeaconsCmd.Flags().StringVar(&watchListenAddr, "listen", "0.0.0.0:1163", "UDP address to listen for beacons on")
	watchBeaconsCmd.Flags().StringVar(&watchLogFile, "log-file", "", "append every beacon as a JSON line to this file, in addition to the console output")
	watchBeaconsCmd.Flags().StringVar(&watchSplitDir, "split-dir", "", "write global.json and sensors.json under this directory instead of --log-file, with rotation")
}

var (
	watchListenAddr string
	watchLogFile    string
	watchSplitDir   string
)

var watchBeaconsCmd = &cobra.Command{
	Use:   "watch-beacons <endpoint>",
	Short: "print beacons and sensor notifications from an agent as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runWatchBeacons(args[0])
	},
}

// beaconSink writes formatted BeaconRecords somewhere other than the console
// (a plain JSON-lines file or a global/sensor split with rotation). It is
// optional: runWatchBeacons always prints to the console regardless.
type beaconSink struct {
	formatter *fmtjson.JSONFormatter
	transport filetransport.Transport
}

func newBeaconSink() (*beaconSink, error) {
	switch {
	case watchSplitDir != "":
		global, err := filetransport.NewRotatingFile(filetransport.RotateConfig{
			FilePath:   filepath.Join(watchSplitDir, "global.json"),
			MaxBytes:   10 << 20,
			MaxBackups: 5,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("open global.json: %w", err)
		}
		sensors, err := filetransport.NewRotatingFile(filetransport.RotateConfig{
			FilePath:   filepath.Join(watchSplitDir, "sensors.json"),
			MaxBytes:   10 << 20,
			MaxBackups: 5,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("open sensors.json: %w", err)
		}
		tr := filetransport.NewSplit(filetransport.SplitConfig{
			GlobalWriter: global,
			SensorWriter: sensors,
		}, nil)
		return &beaconSink{formatter: fmtjson.New(fmtjson.Config{}, nil), transport: tr}, nil

	case watchLogFile != "":
		rf, err := filetransport.NewRotatingFile(filetransport.RotateConfig{
			FilePath: watchLogFile,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", watchLogFile, err)
		}
		tr := filetransport.New(filetransport.Config{Writer: rf}, nil)
		return &beaconSink{formatter: fmtjson.New(fmtjson.Config{}, nil), transport: tr}, nil

	default:
		return nil, nil
	}
}

func (s *beaconSink) send(b manager.Beacon) {
	if s == nil {
		return
	}
	data, err := s.formatter.Format(fmtjson.NewBeaconRecord(b))
	if err != nil {
		return
	}
	_ = s.transport.Send(data)
}

func (s *beaconSink) close() {
	if s == nil {
		return
	}
	_ = s.transport.Close()
}

func runWatchBeacons(endpoint string) error {
	ep, err := resolveEndpoint(endpoint)
	if err != nil {
		return err
	}

	sink, err := newBeaconSink()
	if err != nil {
		return err
	}
	defer sink.close()

	listener := manager.NewBeaconListener(watchListenAddr, ep.SharedSecret, nil)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := listener.Start(ctx); err != nil {
		return err
	}
	defer listener.Stop()

	fmt.Printf("watching for beacons on %s — press Ctrl-C to stop\n", watchListenAddr)
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-listener.Output():
			if !ok {
				return nil
			}
			printBeacon(b)
			sink.send(b)
		}
	}
}

func printBeacon(b manager.Beacon) {
	switch b.Kind {
	case manager.BeaconGlobal:
		color.New(color.FgCyan).Printf("[%s] global beacon: ", b.From)
		fmt.Printf("msg_id=%d values=%v\n", b.PDU.MsgID, b.PDU.VList)
	case manager.BeaconSensor:
		color.New(color.FgYellow).Printf("[%s] sensor %d notification: ", b.From, b.SensorIndex)
		fmt.Printf("msg_id=%d value=%v\n", b.PDU.MsgID, b.PDU.VList)
	default:
		color.New(color.FgRed).Printf("[%s] unrecognized beacon: ", b.From)
		fmt.Printf("iids=%v values=%v\n", b.PDU.IIDList, b.PDU.VList)
	}
}
