// Command memplot draws mathematical functions on your system's memory graph
// by walking the process footprint along a sampled curve.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "memplot",
	Short: "Plot functions in your system's memory monitor",
	Long: `memplot drives the process's live memory footprint along a mathematical
curve, so any external monitor that graphs memory usage over time (Task
Manager, htop, Prometheus) ends up plotting the function.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
