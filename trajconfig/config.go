// Package trajconfig loads a trajectory scenario (waypoints, deviation and
// build options) from YAML with gopkg.in/yaml.v3, decoding into a plain
// tagged struct since the config shape is fixed and small.
package trajconfig

import (
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/itohio/trajplan/x/math/trajectory"
)

// SchemaConstraint is the range of scenario file schema versions this
// engine understands.
const SchemaConstraint = ">=1.0.0, <2.0.0"

// Scenario is the on-disk shape of a trajectory build request.
type Scenario struct {
	SchemaVersion     string      `yaml:"schema_version"`
	Waypoints         [][]float64 `yaml:"waypoints"`
	MaxDeviation      float64     `yaml:"max_deviation"`
	VelocityLimit     []float64   `yaml:"velocity_limit"`
	AccelerationLimit []float64   `yaml:"acceleration_limit"`
	Epsilon           float64     `yaml:"epsilon"`
	Timestep          float64     `yaml:"timestep"`
	Parallel          bool        `yaml:"parallel"`
}

// Load decodes a Scenario from r and checks its schema_version against
// SchemaConstraint.
func Load(r io.Reader) (*Scenario, error) {
	var sc Scenario
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("trajconfig: decode: %w", err)
	}
	if err := sc.checkSchema(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) checkSchema() error {
	v, err := semver.NewVersion(s.SchemaVersion)
	if err != nil {
		return fmt.Errorf("trajconfig: invalid schema_version %q: %w", s.SchemaVersion, err)
	}
	c, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return fmt.Errorf("trajconfig: invalid schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("trajconfig: schema_version %s does not satisfy %s", s.SchemaVersion, SchemaConstraint)
	}
	return nil
}

// WaypointVectors converts the raw waypoint rows into VectorN values.
func (s *Scenario) WaypointVectors() []trajectory.VectorN {
	out := make([]trajectory.VectorN, len(s.Waypoints))
	for i, row := range s.Waypoints {
		out[i] = trajectory.VectorN(append([]float64(nil), row...))
	}
	return out
}

// Options converts the scenario's limits and tolerances into
// TrajectoryOptions.
func (s *Scenario) Options() trajectory.TrajectoryOptions {
	return trajectory.TrajectoryOptions{
		VelocityLimit:     trajectory.VectorN(append([]float64(nil), s.VelocityLimit...)),
		AccelerationLimit: trajectory.VectorN(append([]float64(nil), s.AccelerationLimit...)),
		Epsilon:           s.Epsilon,
		Timestep:          s.Timestep,
		Parallel:          s.Parallel,
	}
}
