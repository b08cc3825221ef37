// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tolerances groups the geometric precision knobs of the kernel. Distances
// are in the same unit as the mesh coordinates (centimeters in practice).
type Tolerances struct {
	// CoordEpsilon is the snapping radius: two vertices closer than this are
	// considered the same point.
	CoordEpsilon float64 `yaml:"coordEpsilon"`
	// AngleEpsilon is the tolerance, in degrees, of angular pseudo equality.
	AngleEpsilon float64 `yaml:"angleEpsilon"`
	// MinAngle is the minimum acceptable angle, in degrees, between a cut
	// and the edge it starts from.
	MinAngle float64 `yaml:"minAngle"`
	// CoordDecimals is the number of decimals kept on vertex coordinates.
	CoordDecimals int `yaml:"coordDecimals"`
	// LineLength approximates an infinite ray when projecting cuts.
	LineLength float64 `yaml:"lineLength"`
}

// DefaultTolerances returns the kernel defaults.
func DefaultTolerances() Tolerances {
	return Tolerances{
		CoordEpsilon:  1.0,
		AngleEpsilon:  2.0,
		MinAngle:      5.0,
		CoordDecimals: 4,
		LineLength:    50000000,
	}
}

// ParseTolerances reads a Tolerances from a YAML document. Missing fields
// keep their default value.
func ParseTolerances(data []byte) (Tolerances, error) {
	tol := DefaultTolerances()
	if err := yaml.Unmarshal(data, &tol); err != nil {
		return Tolerances{}, fmt.Errorf("planmesh: parsing tolerances: %w", err)
	}
	if err := tol.validate(); err != nil {
		return Tolerances{}, err
	}
	return tol, nil
}

func (t Tolerances) validate() error {
	if t.CoordEpsilon <= 0 || t.AngleEpsilon <= 0 || t.MinAngle <= 0 ||
		t.CoordDecimals < 0 || t.LineLength <= 0 {
		return fmt.Errorf("planmesh: invalid tolerances: %+v", t)
	}
	return nil
}
