package ras

import "math"

// Fixed SmartLab slit distances from the sample, in mm. They are not
// recorded in the file.
const (
	slit1Distance = 114.0 - 300.0 // selection slit
	slit2Distance = 190.0 - 300.0 // incident slit
	slit3Distance = 187.0         // receiving slit 1
	slit4Distance = 300.0         // receiving slit 2
)

// EmissionLinewidth is the 1-sigma K-alpha line width (0.05% dL/L FWHM).
const EmissionLinewidth = 0.00021

// monochromatorWavelengthResolution is dL/L by incident monochromator.
// Ge(400)x2 is listed without a value in the instrument manual.
var monochromatorWavelengthResolution = map[string]float64{
	"Ge(220)x2": 3.8e-4,
	"Ge(400)x2": math.NaN(),
	"Ge(220)x4": 1.5e-4,
	"Ge(440)x4": 2.3e-5,
}

// monochromatorAngularDivergence is in degrees, converted from arc seconds.
var monochromatorAngularDivergence = map[string]float64{
	"mirror":    4.1e-2,
	"Ge(220)x2": 8.8e-3,
	"Ge(400)x2": 1.2e-2,
	"Ge(220)x4": 3.4e-3,
	"Ge(440)x4": 1.5e-3,
}

// WavelengthResolution returns the tabulated wavelength resolution of a
// monochromator crystal, or NaN when the crystal is unknown.
func WavelengthResolution(crystal string) float64 {
	if v, ok := monochromatorWavelengthResolution[crystal]; ok {
		return v
	}
	return math.NaN()
}

// AngularDivergence returns the tabulated angular divergence of a
// monochromator crystal, or NaN when the crystal is unknown.
func AngularDivergence(crystal string) float64 {
	if v, ok := monochromatorAngularDivergence[crystal]; ok {
		return v
	}
	return math.NaN()
}
