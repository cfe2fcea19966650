package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memplot/memplot/curve"
)

func init() {
	rootCmd.AddCommand(newCurvesCmd())
}

func newCurvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List built-in curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range curve.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}
