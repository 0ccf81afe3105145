package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	rootCmd = &cobra.Command{
		Use:   "fenestra",
		Short: "Fenestra - cross-protocol windowing inspector",
		Long: `Fenestra is a windowing layer that speaks both Wayland and X11
through a single event-loop and window API. This tool inspects the live
display connection: which protocol was picked, what monitors are attached,
and what the system theme resolves to.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
}

// Exit with error message
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
