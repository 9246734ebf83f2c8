package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"time"

	"mercator-hq/xrdscan/pkg/ras"
)

// codecVersion is stored with every encoded entry. Entries written with a
// different version are treated as misses.
const codecVersion = 2

// gob omits struct fields equal to zero and -0.0 == 0, so a negative zero
// in a scalar field would come back positive. Scalars travel as their
// IEEE 754 bits instead; slice elements are always sent and keep their
// sign.

type wireValue struct {
	Kind  ras.ValueKind
	Int   int64
	Float uint64
	Text  string
	Raw   string
}

type wireAxisEntry struct {
	Label        string
	Unit         string
	PositionKind ras.PositionKind
	PositionNum  uint64
	PositionText string
	Offset       uint64
}

type wireDataset struct {
	X, Y, YErr, CountTimes []float64

	XLabel, XUnit string
	XResolution   uint64
	YLabel, YUnit string
	CountTime     uint64
	CountTimeUnit string
	Sample        string
	Comment       string
	StartTime     time.Time
	EndTime       time.Time
	ScanAxis      string
	ScanMode      string
	SlitDistances [4]uint64
	Wavelength    uint64
	WavelengthRes uint64
	AngularDiverg uint64
	Axis          map[string]wireAxisEntry
	Header        map[string]wireValue
}

func toWire(d *ras.Dataset) wireDataset {
	w := wireDataset{
		X:             d.X,
		Y:             d.Y,
		YErr:          d.YErr,
		CountTimes:    d.CountTimes,
		XLabel:        d.XLabel,
		XUnit:         d.XUnit,
		XResolution:   math.Float64bits(d.XResolution),
		YLabel:        d.YLabel,
		YUnit:         d.YUnit,
		CountTime:     math.Float64bits(d.CountTime),
		CountTimeUnit: d.CountTimeUnit,
		Sample:        d.Sample,
		Comment:       d.Comment,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		ScanAxis:      d.ScanAxis,
		ScanMode:      d.ScanMode,
		SlitDistances: [4]uint64{
			math.Float64bits(d.Slit1Distance),
			math.Float64bits(d.Slit2Distance),
			math.Float64bits(d.Slit3Distance),
			math.Float64bits(d.Slit4Distance),
		},
		Wavelength:    math.Float64bits(d.Wavelength),
		WavelengthRes: math.Float64bits(d.WavelengthResolution),
		AngularDiverg: math.Float64bits(d.AngularDivergence),
		Axis:          make(map[string]wireAxisEntry, len(d.Axis)),
		Header:        make(map[string]wireValue, len(d.Header)),
	}
	for name, a := range d.Axis {
		w.Axis[name] = wireAxisEntry{
			Label:        a.Label,
			Unit:         a.Unit,
			PositionKind: a.Position.Kind,
			PositionNum:  math.Float64bits(a.Position.Number),
			PositionText: a.Position.Text,
			Offset:       math.Float64bits(a.Offset),
		}
	}
	for key, v := range d.Header {
		w.Header[key] = wireValue{Kind: v.Kind, Int: v.Int, Float: math.Float64bits(v.Float), Text: v.Text, Raw: v.Raw}
	}
	return w
}

func (w wireDataset) dataset() *ras.Dataset {
	d := &ras.Dataset{
		X:                    orEmpty(w.X),
		Y:                    orEmpty(w.Y),
		YErr:                 orEmpty(w.YErr),
		CountTimes:           orEmpty(w.CountTimes),
		XLabel:               w.XLabel,
		XUnit:                w.XUnit,
		XResolution:          math.Float64frombits(w.XResolution),
		YLabel:               w.YLabel,
		YUnit:                w.YUnit,
		CountTime:            math.Float64frombits(w.CountTime),
		CountTimeUnit:        w.CountTimeUnit,
		Sample:               w.Sample,
		Comment:              w.Comment,
		StartTime:            w.StartTime,
		EndTime:              w.EndTime,
		ScanAxis:             w.ScanAxis,
		ScanMode:             w.ScanMode,
		Slit1Distance:        math.Float64frombits(w.SlitDistances[0]),
		Slit2Distance:        math.Float64frombits(w.SlitDistances[1]),
		Slit3Distance:        math.Float64frombits(w.SlitDistances[2]),
		Slit4Distance:        math.Float64frombits(w.SlitDistances[3]),
		Wavelength:           math.Float64frombits(w.Wavelength),
		WavelengthResolution: math.Float64frombits(w.WavelengthRes),
		AngularDivergence:    math.Float64frombits(w.AngularDiverg),
		Axis:                 make(ras.AxisTable, len(w.Axis)),
		Header:               make(map[string]ras.Value, len(w.Header)),
	}
	for name, a := range w.Axis {
		d.Axis[name] = ras.AxisEntry{
			Label: a.Label,
			Unit:  a.Unit,
			Position: ras.Position{
				Kind:   a.PositionKind,
				Number: math.Float64frombits(a.PositionNum),
				Text:   a.PositionText,
			},
			Offset: math.Float64frombits(a.Offset),
		}
	}
	for key, v := range w.Header {
		d.Header[key] = ras.Value{Kind: v.Kind, Int: v.Int, Float: math.Float64frombits(v.Float), Text: v.Text, Raw: v.Raw}
	}
	return d
}

// gob does not transmit empty slices.
func orEmpty(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}

func encodeDatasets(datasets []*ras.Dataset) ([]byte, error) {
	wire := make([]wireDataset, len(datasets))
	for i, d := range datasets {
		wire[i] = toWire(d)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("failed to encode datasets: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDatasets(data []byte) ([]*ras.Dataset, error) {
	var wire []wireDataset
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode datasets: %w", err)
	}

	datasets := make([]*ras.Dataset, len(wire))
	for i, w := range wire {
		datasets[i] = w.dataset()
	}
	return datasets, nil
}
