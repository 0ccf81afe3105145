package main

import (
	"fmt"

	"github.com/bnema/fenestra"
	"github.com/bnema/fenestra/handle"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show display connection details",
	Long:  `Print the negotiated display protocol, screen, and system theme.`,
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	loop, err := fenestra.New()
	if err != nil {
		exitError("failed to acquire display: %v", err)
	}
	defer loop.Close()

	target := loop.WindowTarget()

	raw, err := target.DisplayHandle()
	if err != nil {
		exitError("failed to resolve display handle: %v", err)
	}
	switch h := raw.(type) {
	case handle.WaylandDisplayHandle:
		fmt.Println("protocol: wayland")
	case handle.XlibDisplayHandle:
		fmt.Println("protocol: x11")
		fmt.Printf("screen: %d\n", h.Screen)
	}

	if theme, ok := target.SystemTheme(); ok {
		fmt.Printf("theme: %s\n", theme)
	} else {
		fmt.Println("theme: unknown")
	}

	fmt.Printf("monitors: %d\n", len(target.AvailableMonitors()))
}
