package ras

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Normalize returns a copy of d with Y and YErr in counts per unit count
// time at full beam: row i is divided by the attenuation times
// CountTimes[i]. A dataset without an Attenuator axis is treated as
// unattenuated.
func (d *Dataset) Normalize() (*Dataset, error) {
	attenuation := 1.0
	if pos, ok := d.Attenuation(); ok {
		if pos.Kind != PositionNumber || math.IsNaN(pos.Number) || pos.Number <= 0 {
			return nil, fmt.Errorf("cannot normalize: attenuation %s is not a positive number", pos)
		}
		attenuation = pos.Number
	}

	out := d.Clone()
	inv := make([]float64, len(out.CountTimes))
	for i, t := range out.CountTimes {
		if t <= 0 {
			return nil, fmt.Errorf("cannot normalize: row %d has count time %g", i, t)
		}
		inv[i] = 1 / (attenuation * t)
	}
	vecmath.MulBlockInPlace(out.Y, inv)
	vecmath.MulBlockInPlace(out.YErr, inv)

	if out.CountTimeUnit != "" {
		out.YUnit = out.YUnit + "/" + out.CountTimeUnit
	}
	return out, nil
}
