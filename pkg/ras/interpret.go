package ras

import (
	"math"
	"slices"
	"time"

	vecmath "github.com/cwbudde/algo-vecmath"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// TimeLayout is the timestamp layout of MEAS_SCAN_START_TIME and
// MEAS_SCAN_END_TIME ("mm/dd/yy HH:MM:SS").
const TimeLayout = "01/02/06 15:04:05"

// Header keys read by the interpreter.
const (
	KeyXLabel        = "MEAS_SCAN_AXIS_X"
	KeyXUnit         = "MEAS_SCAN_UNIT_X"
	KeyXResolution   = "MEAS_SCAN_RESOLUTION_X"
	KeyYLabel        = "DISP_TITLE_Y"
	KeyYUnit         = "MEAS_SCAN_UNIT_Y"
	KeyCountTime     = "MEAS_SCAN_SPEED"
	KeyCountTimeUnit = "MEAS_SCAN_SPEED_UNIT"
	KeySample        = "FILE_SAMPLE"
	KeyComment       = "FILE_COMMENT"
	KeyStartTime     = "MEAS_SCAN_START_TIME"
	KeyEndTime       = "MEAS_SCAN_END_TIME"
	KeyScanAxis      = "MEAS_SCAN_AXIS_X_INTERNAL"
	KeyScanMode      = "MEAS_SCAN_MODE"
	KeyWaveType      = "MEAS_COND_XG_WAVE_TYPE"
	KeyKAlpha1       = "HW_XG_WAVE_LENGTH_ALPHA1"
	KeyKAlpha2       = "HW_XG_WAVE_LENGTH_ALPHA2"
	KeyKBeta         = "HW_XG_WAVE_LENGTH_BETA"
)

// headerReader reads required typed fields from a segment header and keeps
// the first failure.
type headerReader struct {
	seg *Segment
	err *rasErrors.FormatError
}

func (r *headerReader) value(key string) (Value, bool) {
	if r.err != nil {
		return Value{}, false
	}
	v, ok := r.seg.Header[key]
	if !ok {
		r.err = rasErrors.NewFormatError(r.seg.HeaderLine(), "missing header field %s", key)
		r.err.Suggestion = rasErrors.SuggestHeaderKey(key, sortedKeys(r.seg.Header))
		return Value{}, false
	}
	return v, true
}

func (r *headerReader) text(key string) string {
	v, ok := r.value(key)
	if !ok {
		return ""
	}
	return v.String()
}

func (r *headerReader) number(key string) float64 {
	v, ok := r.value(key)
	if !ok {
		return math.NaN()
	}
	num, ok := v.Number()
	if !ok {
		r.err = rasErrors.NewFormatError(r.seg.KeyLine(key),
			"header field %s = %q is not a number", key, v.Raw)
		return math.NaN()
	}
	return num
}

func (r *headerReader) time(key string) time.Time {
	v, ok := r.value(key)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(TimeLayout, v.String())
	if err != nil {
		r.err = rasErrors.NewFormatError(r.seg.KeyLine(key),
			"header field %s = %q is not a mm/dd/yy HH:MM:SS time", key, v.Raw)
		return time.Time{}
	}
	return t
}

// interpret turns one parsed segment into a Dataset.
func interpret(seg *Segment) (*Dataset, error) {
	r := &headerReader{seg: seg}
	d := &Dataset{
		XLabel:        r.text(KeyXLabel),
		XUnit:         r.text(KeyXUnit),
		XResolution:   r.number(KeyXResolution),
		YLabel:        r.text(KeyYLabel),
		YUnit:         r.text(KeyYUnit),
		CountTime:     r.number(KeyCountTime),
		CountTimeUnit: r.text(KeyCountTimeUnit),
		Sample:        r.text(KeySample),
		Comment:       r.text(KeyComment),
		StartTime:     r.time(KeyStartTime),
		EndTime:       r.time(KeyEndTime),
		ScanAxis:      r.text(KeyScanAxis),
		ScanMode:      r.text(KeyScanMode),
		Slit1Distance: slit1Distance,
		Slit2Distance: slit2Distance,
		Slit3Distance: slit3Distance,
		Slit4Distance: slit4Distance,
		Header:        seg.Header,
	}
	if r.err != nil {
		return nil, r.err
	}

	d.X, d.Y, d.YErr = countingArrays(seg.Rows)
	d.CountTimes = broadcast(d.CountTime, len(seg.Rows))

	axis, err := buildAxisTable(seg)
	if err != nil {
		return nil, err
	}
	d.Axis = axis

	crystal := d.Monochromator()
	d.WavelengthResolution = WavelengthResolution(crystal)
	d.AngularDivergence = AngularDivergence(crystal)

	if err := selectWavelength(r, d); err != nil {
		return nil, err
	}
	return d, nil
}

// countingArrays returns x, intensity*scale and sqrt(intensity)*scale.
func countingArrays(rows []Row) (x, y, yErr []float64) {
	n := len(rows)
	x = make([]float64, n)
	intensity := make([]float64, n)
	rootIntensity := make([]float64, n)
	scale := make([]float64, n)
	for i, row := range rows {
		x[i] = row.X
		intensity[i] = row.Intensity
		rootIntensity[i] = math.Sqrt(row.Intensity)
		scale[i] = row.Scale
	}

	y = make([]float64, n)
	yErr = make([]float64, n)
	if n > 0 {
		vecmath.MulBlock(y, intensity, scale)
		vecmath.MulBlock(yErr, rootIntensity, scale)
	}
	return x, y, yErr
}

func broadcast(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// selectWavelength sets the wavelength from the emission line selected by
// MEAS_COND_XG_WAVE_TYPE. Without a selection the beam holds both K-alpha
// lines and the wavelength resolution is their spread.
func selectWavelength(r *headerReader, d *Dataset) error {
	waveType := ""
	if v, ok := d.Header[KeyWaveType]; ok {
		waveType = v.String()
	}

	switch waveType {
	case "Ka1", "Ka2":
		// Ka2 reads the alpha-1 line as well; kept until the instrument
		// team confirms which line Ka2 files are recorded with.
		d.Wavelength = r.number(KeyKAlpha1)
	case "Kb":
		d.Wavelength = r.number(KeyKBeta)
	default:
		ka1 := r.number(KeyKAlpha1)
		ka2 := r.number(KeyKAlpha2)
		d.Wavelength = (2*ka1 + ka2) / 3
		d.WavelengthResolution = sampleStdDev([]float64{ka1, ka1, ka2})
	}
	if r.err != nil {
		return r.err
	}
	return nil
}

// sampleStdDev is the standard deviation with an n-1 denominator.
func sampleStdDev(values []float64) float64 {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / (n - 1))
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
