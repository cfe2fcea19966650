package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/memplot/memplot/curve"
	"github.com/memplot/memplot/plotter"
	"github.com/memplot/memplot/sysmem"
)

var (
	plotCurve       string
	plotMinX        float64
	plotMaxX        float64
	plotStep        float64
	plotMinY        float64
	plotMaxY        float64
	plotMaxBytes    int
	plotMemFraction float64
	plotInterval    time.Duration
	plotReleaseOS   bool
	plotMetricsAddr string
	plotDumpStats   bool
)

func init() {
	cmd := newPlotCmd()
	cmd.Flags().StringVar(&plotCurve, "curve", "pulse", "Built-in curve to plot (see 'memplot curves')")
	cmd.Flags().Float64Var(&plotMinX, "min-x", -3.0, "Left edge of the sampled interval")
	cmd.Flags().Float64Var(&plotMaxX, "max-x", 3.0, "Right edge of the sampled interval")
	cmd.Flags().Float64Var(&plotStep, "step", 0.001, "Distance between samples")
	cmd.Flags().Float64Var(&plotMinY, "min-y", 0.0, "Curve value mapped to a zero footprint")
	cmd.Flags().Float64Var(&plotMaxY, "max-y", 5.0, "Curve value mapped to the full footprint")
	cmd.Flags().IntVar(&plotMaxBytes, "max-bytes", 0, "Footprint at the top of the graph (0 = derive from available memory)")
	cmd.Flags().Float64Var(&plotMemFraction, "mem-fraction", 0.9, "Fraction of available memory to use when --max-bytes is 0")
	cmd.Flags().DurationVar(&plotInterval, "interval", 3*time.Millisecond, "Pause between steps")
	cmd.Flags().BoolVar(&plotReleaseOS, "release-os-memory", false, "Return freed pages to the OS after shrink steps")
	cmd.Flags().StringVar(&plotMetricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address (e.g. :9500)")
	cmd.Flags().BoolVar(&plotDumpStats, "dump-stats", false, "Log the final block map as JSON before exit")
	rootCmd.AddCommand(cmd)
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot",
		Short: "Walk the process footprint along a curve",
		Long: `The plot command samples a curve from min-x to max-x and adjusts the
process's live memory footprint to each sampled value in turn, pausing between
steps. Watch a memory monitor while it runs.

Example:
  memplot plot
  memplot plot --curve parabola --max-y 9 --max-bytes 2147483648
  memplot plot --metrics-addr :9500 --release-os-memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot()
		},
	}
}

func runPlot() error {
	f, ok := curve.Lookup(plotCurve)
	if !ok {
		return errors.Errorf("unknown curve %q (available: %s)", plotCurve, strings.Join(curve.Names(), ", "))
	}

	maxBytes := plotMaxBytes
	if maxBytes == 0 {
		avail, err := sysmem.Available()
		if err != nil {
			return errors.Wrap(err, "querying available memory (set --max-bytes explicitly)")
		}
		maxBytes = int(float64(avail) * plotMemFraction)
		fmt.Printf("Available memory: %.2fGB\n", float64(avail)/(1<<30))
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.HandlerOptions{Level: level}.NewTextHandler(os.Stderr))

	config := plotter.Config{
		Curve:           f,
		MinX:            plotMinX,
		MaxX:            plotMaxX,
		Step:            plotStep,
		MinY:            plotMinY,
		MaxY:            plotMaxY,
		MaxBytes:        maxBytes,
		Interval:        plotInterval,
		Logger:          logger,
		ReleaseOSMemory: plotReleaseOS,
		DumpStats:       plotDumpStats,
	}

	if plotMetricsAddr != "" {
		registry := prometheus.NewRegistry()
		metrics := plotter.NewMetrics(registry)
		config.OnUsage = metrics.Observe

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(plotMetricsAddr, mux); err != nil {
				logger.LogAttrs(context.Background(), slog.LevelError,
					"metrics listener failed", slog.Any("error", err))
			}
		}()
	}

	p, err := plotter.New(config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Starting plotting...")
	if err := p.Run(ctx); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}
