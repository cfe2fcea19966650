package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memplot/memplot/sysmem"
)

func init() {
	rootCmd.AddCommand(newMemCmd())
}

func newMemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mem",
		Short: "Print available physical memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			avail, err := sysmem.Available()
			if err != nil {
				return err
			}
			fmt.Printf("Available memory: %d bytes (%.2fGB)\n", avail, float64(avail)/(1<<30))
			return nil
		},
	}
}
