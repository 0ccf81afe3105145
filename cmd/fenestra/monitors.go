package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bnema/fenestra"
	"github.com/spf13/cobra"
)

// MonitorList is the JSON shape of the monitors command output
type MonitorList struct {
	Monitors []MonitorInfo `json:"monitors"`
	Error    string        `json:"error,omitempty"`
}

// MonitorInfo describes a single connected monitor
type MonitorInfo struct {
	Name   string  `json:"name"`
	X      int32   `json:"x"`
	Y      int32   `json:"y"`
	Width  uint32  `json:"width"`
	Height uint32  `json:"height"`
	Scale  float64 `json:"scale"`
}

var jsonOutput bool

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "Show monitor configuration",
	Long:  `Display information about connected monitors and their configuration.`,
	RunE:  runMonitors,
}

func init() {
	monitorsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddCommand(monitorsCmd)
}

func runMonitors(cmd *cobra.Command, args []string) error {
	loop, err := fenestra.New()
	if err != nil {
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(MonitorList{Error: err.Error()})
		}
		return fmt.Errorf("failed to acquire display: %w", err)
	}
	defer loop.Close()

	monitors := loop.WindowTarget().AvailableMonitors()

	if jsonOutput {
		list := MonitorList{Monitors: make([]MonitorInfo, len(monitors))}
		for i, mon := range monitors {
			pos := mon.Position()
			size := mon.Size()
			list.Monitors[i] = MonitorInfo{
				Name:   mon.Name(),
				X:      pos.X,
				Y:      pos.Y,
				Width:  size.Width,
				Height: size.Height,
				Scale:  mon.ScaleFactor(),
			}
		}
		return json.NewEncoder(os.Stdout).Encode(list)
	}

	if len(monitors) == 0 {
		fmt.Println("No monitors detected")
		return nil
	}
	for _, mon := range monitors {
		pos := mon.Position()
		size := mon.Size()
		fmt.Printf("%s: %dx%d at %d,%d (scale %.1f)\n",
			mon.Name(), size.Width, size.Height, pos.X, pos.Y, mon.ScaleFactor())
	}
	return nil
}
