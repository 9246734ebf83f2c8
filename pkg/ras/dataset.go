package ras

import (
	"maps"
	"math"
	"time"
)

// Dataset is one interpreted scan segment, or several segments joined into
// one continuous scan. X, Y, YErr and CountTimes always have the same length.
type Dataset struct {
	X          []float64 // scan axis positions
	Y          []float64 // intensity * scale
	YErr       []float64 // sqrt(intensity) * scale
	CountTimes []float64 // count time of each row

	XLabel      string
	XUnit       string
	XResolution float64
	YLabel      string
	YUnit       string

	CountTime     float64 // count time of the (first) segment
	CountTimeUnit string

	Sample  string
	Comment string

	StartTime time.Time
	EndTime   time.Time

	ScanAxis string // e.g. "TwoThetaOmega", "Omega"
	ScanMode string // e.g. "STEP"

	// Slit distances from the sample in mm; negative before the sample.
	Slit1Distance float64
	Slit2Distance float64
	Slit3Distance float64
	Slit4Distance float64

	Axis AxisTable

	Wavelength           float64 // Angstroms
	WavelengthResolution float64 // 1-sigma, NaN when unknown
	AngularDivergence    float64 // NaN when unknown

	// Header holds every header field of the (first) segment.
	Header map[string]Value
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.X)
}

// Attenuation returns the Attenuator axis position, if the axis exists.
func (d *Dataset) Attenuation() (Position, bool) {
	entry, ok := d.Axis[AxisAttenuator]
	return entry.Position, ok
}

// Monochromator returns the incident monochromator crystal name, or "" when
// the axis is absent or its position is not a name.
func (d *Dataset) Monochromator() string {
	entry, ok := d.Axis[AxisIncidentMonochromator]
	if !ok || entry.Position.Kind != PositionText {
		return ""
	}
	return entry.Position.Text
}

// Clone returns a deep copy that shares no slices or maps with d.
func (d *Dataset) Clone() *Dataset {
	out := *d
	out.X = append([]float64(nil), d.X...)
	out.Y = append([]float64(nil), d.Y...)
	out.YErr = append([]float64(nil), d.YErr...)
	out.CountTimes = append([]float64(nil), d.CountTimes...)
	out.Axis = maps.Clone(d.Axis)
	out.Header = maps.Clone(d.Header)
	return &out
}

// Equal reports whether two datasets are identical. Floats are compared bit
// for bit, so NaN sentinels must sit in the same places.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == nil || o == nil {
		return d == o
	}
	if !sameFloats(d.X, o.X) || !sameFloats(d.Y, o.Y) ||
		!sameFloats(d.YErr, o.YErr) || !sameFloats(d.CountTimes, o.CountTimes) {
		return false
	}
	if d.XLabel != o.XLabel || d.XUnit != o.XUnit || d.YLabel != o.YLabel ||
		d.YUnit != o.YUnit || d.CountTimeUnit != o.CountTimeUnit ||
		d.Sample != o.Sample || d.Comment != o.Comment ||
		d.ScanAxis != o.ScanAxis || d.ScanMode != o.ScanMode {
		return false
	}
	if !d.StartTime.Equal(o.StartTime) || !d.EndTime.Equal(o.EndTime) {
		return false
	}
	scalars := [][2]float64{
		{d.XResolution, o.XResolution},
		{d.CountTime, o.CountTime},
		{d.Slit1Distance, o.Slit1Distance},
		{d.Slit2Distance, o.Slit2Distance},
		{d.Slit3Distance, o.Slit3Distance},
		{d.Slit4Distance, o.Slit4Distance},
		{d.Wavelength, o.Wavelength},
		{d.WavelengthResolution, o.WavelengthResolution},
		{d.AngularDivergence, o.AngularDivergence},
	}
	for _, pair := range scalars {
		if !sameFloat(pair[0], pair[1]) {
			return false
		}
	}
	if len(d.Axis) != len(o.Axis) {
		return false
	}
	for name, a := range d.Axis {
		b, ok := o.Axis[name]
		if !ok || a.Label != b.Label || a.Unit != b.Unit || !sameFloat(a.Offset, b.Offset) {
			return false
		}
		if a.Position.Kind != b.Position.Kind || a.Position.Text != b.Position.Text ||
			!sameFloat(a.Position.Number, b.Position.Number) {
			return false
		}
	}
	return maps.EqualFunc(d.Header, o.Header, func(a, b Value) bool {
		return a.Raw == b.Raw && a.Equal(b)
	})
}

func sameFloat(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameFloat(a[i], b[i]) {
			return false
		}
	}
	return true
}
