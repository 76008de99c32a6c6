// Command trajdemo builds a trajectory from a YAML scenario file and
// prints sampled positions along it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/itohio/trajplan/trajconfig"
	"github.com/itohio/trajplan/x/math/trajectory"
	"github.com/itohio/trajplan/x/math/trajectory/trajlog"
)

func main() {
	scenarioPath := flag.String("scenario", "", "Path to a trajectory scenario YAML file")
	samples := flag.Int("samples", 10, "Number of evenly spaced time samples to print")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: trajdemo -scenario <file.yaml>")
		os.Exit(1)
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		trajlog.Log.Error().Err(err).Str("path", *scenarioPath).Msg("open scenario")
		os.Exit(1)
	}
	defer f.Close()

	scenario, err := trajconfig.Load(f)
	if err != nil {
		trajlog.Log.Error().Err(err).Msg("load scenario")
		os.Exit(1)
	}

	p, err := trajectory.BuildPath(scenario.WaypointVectors(), scenario.MaxDeviation)
	if err != nil {
		trajlog.Log.Error().Err(err).Msg("build path")
		os.Exit(1)
	}

	traj, err := trajectory.BuildTrajectory(p, scenario.Options())
	if err != nil {
		trajlog.Log.Error().Err(err).Msg("build trajectory")
		os.Exit(1)
	}

	trajlog.Log.Info().Float64("duration", traj.Duration()).Msg("trajectory built")

	n := *samples
	if n < 2 {
		n = 2
	}
	for i := 0; i < n; i++ {
		t := traj.Duration() * float64(i) / float64(n-1)
		fmt.Printf("t=%.4f position=%v velocity=%v\n", t, traj.Position(t), traj.Velocity(t))
	}
}
