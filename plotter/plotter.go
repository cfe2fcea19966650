// Package plotter drives the footprint controller along a sampled curve: one
// adjustment per sample, paced by a fixed interval, so the process's memory
// graph traces the curve in external monitoring tools.
package plotter

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slog"

	"github.com/memplot/memplot/blocks"
	"github.com/memplot/memplot/curve"
	"github.com/memplot/memplot/footprint"
)

// Config controls a single plotting run.
type Config struct {
	// Curve is sampled once per step.
	Curve curve.Func
	// MinX, MaxX and Step define the sample positions: MinX, MinX+Step, ...
	// up to and including MaxX.
	MinX, MaxX, Step float64
	// MinY and MaxY scale sampled values to bytes; see curve.Scale.
	MinY, MaxY float64
	// MaxBytes is the footprint that corresponds to the top of the graph.
	MaxBytes int
	// Interval is the pause between steps. It shapes the graph's time axis.
	Interval time.Duration

	// Logger receives one record per step. Nil means slog.Default.
	Logger *slog.Logger
	// Allocate overrides the block allocator. Nil means blocks.HeapAllocate.
	Allocate blocks.AllocateFunc
	// Sleep overrides the pacing primitive. Nil means time.Sleep.
	Sleep func(time.Duration)
	// OnUsage, when set, is called after every applied step with the step's
	// target, the bytes actually held, and the chain's node count.
	OnUsage func(targetBytes, heldBytes, blockCount int)
	// ReleaseOSMemory forces freed pages back to the operating system after
	// shrink steps. Without it the runtime returns memory lazily and
	// monitors see a smeared downslope.
	ReleaseOSMemory bool
	// DumpStats logs the final block map as JSON before teardown.
	DumpStats bool
}

// Plotter owns the block list for the duration of a run.
type Plotter struct {
	config Config
	logger *slog.Logger
	sleep  func(time.Duration)
}

// New validates config and creates a Plotter.
func New(config Config) (*Plotter, error) {
	if config.Curve == nil {
		return nil, errors.New("config.Curve must be provided")
	}
	if config.Step <= 0 {
		return nil, errors.Errorf("config.Step must be > 0, got %g", config.Step)
	}
	if config.MaxX < config.MinX {
		return nil, errors.Errorf("config.MaxX %g is below config.MinX %g", config.MaxX, config.MinX)
	}
	if config.MaxY == 0 {
		return nil, errors.New("config.MaxY must be nonzero")
	}
	if config.MaxBytes <= 0 {
		return nil, errors.Errorf("config.MaxBytes must be > 0, got %d", config.MaxBytes)
	}
	if config.Interval < 0 {
		return nil, errors.Errorf("config.Interval must be >= 0, got %s", config.Interval)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := config.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Plotter{
		config: config,
		logger: logger,
		sleep:  sleep,
	}, nil
}

// Run executes the plot from MinX to MaxX. The block list is created before
// the first step and destroyed on every exit path. Run stops early when ctx
// is cancelled between steps or when an adjustment fails; an in-progress
// adjustment always runs to completion first.
func (p *Plotter) Run(ctx context.Context) (err error) {
	list := blocks.NewList(p.config.Allocate, p.logger)
	defer func() {
		if p.config.DumpStats {
			p.logger.LogAttrs(ctx, slog.LevelInfo, "final block map",
				slog.String("stats", list.BuildStatsString()))
		}
		if destroyErr := list.Destroy(); destroyErr != nil && err == nil {
			err = destroyErr
		}
	}()

	var total int
	for x := p.config.MinX; x <= p.config.MaxX; x += p.config.Step {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		y := p.config.Curve(x)
		target := curve.Scale(y, p.config.MinY, p.config.MaxY, p.config.MaxBytes)

		if err := footprint.Adjust(list, total, target); err != nil {
			return errors.Wrapf(err, "adjusting footprint at x=%g", x)
		}
		shrunk := target < total
		total = target

		if shrunk && p.config.ReleaseOSMemory {
			debug.FreeOSMemory()
		}

		p.logger.LogAttrs(ctx, slog.LevelInfo, "plotting",
			slog.Float64("x", x),
			slog.Float64("y", y),
			slog.Int("targetBytes", target),
			slog.Int("blocks", list.BlockCount()),
		)
		if p.config.OnUsage != nil {
			p.config.OnUsage(target, list.TotalBytes(), list.BlockCount())
		}

		p.sleep(p.config.Interval)
	}
	return nil
}
