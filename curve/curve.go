// Package curve provides the sampling functions whose shape the process
// footprint traces over time, and the scaling that maps sampled values to
// target byte counts.
package curve

import (
	"math"
	"sort"
)

// Func is a pure mapping from a real input to a real output.
type Func func(x float64) float64

// Pulse is |sin x| with a tall central spike, which renders as a heartbeat-ish
// bump train on a memory graph.
func Pulse(x float64) float64 {
	return math.Abs(math.Sin(x)) + 5*math.Exp(-math.Pow(x, 100))*math.Cos(x)
}

// Parabola is x squared.
func Parabola(x float64) float64 {
	return x * x
}

// Sine is sin x.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Sawtooth is the fractional part of x, ramping from 0 to 1 once per unit.
func Sawtooth(x float64) float64 {
	return x - math.Floor(x)
}

var builtins = map[string]Func{
	"pulse":    Pulse,
	"parabola": Parabola,
	"sine":     Sine,
	"sawtooth": Sawtooth,
}

// Lookup returns the built-in curve registered under name.
func Lookup(name string) (Func, bool) {
	f, ok := builtins[name]
	return f, ok
}

// Names returns the names of all built-in curves in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scale maps a sampled value to a target footprint in bytes: the value's
// position between minY and maxY, as a fraction of maxBytes. Values below
// minY clamp to 0 since a footprint cannot be negative.
func Scale(y, minY, maxY float64, maxBytes int) int {
	target := int((y - minY) / maxY * float64(maxBytes))
	if target < 0 {
		return 0
	}
	return target
}
