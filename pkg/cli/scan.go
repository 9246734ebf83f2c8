package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"mercator-hq/xrdscan/pkg/ras"
)

// ScanSummary describes one dataset for the show command.
type ScanSummary struct {
	File                 string    `json:"file"`
	Segment              int       `json:"segment"`
	Sample               string    `json:"sample"`
	Comment              string    `json:"comment,omitempty"`
	ScanAxis             string    `json:"scan_axis"`
	ScanMode             string    `json:"scan_mode"`
	XLabel               string    `json:"x_label"`
	XUnit                string    `json:"x_unit"`
	YLabel               string    `json:"y_label"`
	YUnit                string    `json:"y_unit"`
	Points               int       `json:"points"`
	XMin                 Float     `json:"x_min"`
	XMax                 Float     `json:"x_max"`
	CountTime            Float     `json:"count_time"`
	CountTimeUnit        string    `json:"count_time_unit"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Attenuation          string    `json:"attenuation,omitempty"`
	Monochromator        string    `json:"monochromator,omitempty"`
	Wavelength           Float     `json:"wavelength"`
	WavelengthResolution Float     `json:"wavelength_resolution"`
	AngularDivergence    Float     `json:"angular_divergence"`

	dataset *ras.Dataset
}

// Summarize builds the summary of segment index of the file at path.
func Summarize(path string, index int, d *ras.Dataset) ScanSummary {
	s := ScanSummary{
		File:                 path,
		Segment:              index,
		Sample:               d.Sample,
		Comment:              d.Comment,
		ScanAxis:             d.ScanAxis,
		ScanMode:             d.ScanMode,
		XLabel:               d.XLabel,
		XUnit:                d.XUnit,
		YLabel:               d.YLabel,
		YUnit:                d.YUnit,
		Points:               d.Len(),
		CountTime:            Float(d.CountTime),
		CountTimeUnit:        d.CountTimeUnit,
		StartTime:            d.StartTime,
		EndTime:              d.EndTime,
		Monochromator:        d.Monochromator(),
		Wavelength:           Float(d.Wavelength),
		WavelengthResolution: Float(d.WavelengthResolution),
		AngularDivergence:    Float(d.AngularDivergence),
		dataset:              d,
	}
	if pos, ok := d.Attenuation(); ok {
		s.Attenuation = pos.String()
	}
	if d.Len() > 0 {
		lo, hi := d.X[0], d.X[0]
		for _, x := range d.X[1:] {
			lo, hi = min(lo, x), max(hi, x)
		}
		s.XMin, s.XMax = Float(lo), Float(hi)
	}
	return s
}

// ScanReport is the result of the show command.
type ScanReport struct {
	Scans []ScanSummary `json:"scans"`
}

// Add appends the summaries of datasets loaded from path.
func (r *ScanReport) Add(path string, datasets []*ras.Dataset) {
	for i, d := range datasets {
		r.Scans = append(r.Scans, Summarize(path, i, d))
	}
}

// WriteText renders one block per dataset.
func (r *ScanReport) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, s := range r.Scans {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s [segment %d]\n", s.File, s.Segment)
		fmt.Fprintf(tw, "  sample:\t%s\n", s.Sample)
		if s.Comment != "" {
			fmt.Fprintf(tw, "  comment:\t%s\n", s.Comment)
		}
		fmt.Fprintf(tw, "  scan:\t%s %s\n", s.ScanAxis, s.ScanMode)
		fmt.Fprintf(tw, "  x:\t%s (%s)\n", s.XLabel, s.XUnit)
		fmt.Fprintf(tw, "  y:\t%s (%s)\n", s.YLabel, s.YUnit)
		fmt.Fprintf(tw, "  points:\t%d (%s %s to %s %s)\n", s.Points, s.XMin, s.XUnit, s.XMax, s.XUnit)
		fmt.Fprintf(tw, "  count time:\t%s %s\n", s.CountTime, s.CountTimeUnit)
		fmt.Fprintf(tw, "  time:\t%s to %s\n", s.StartTime.Format(time.DateTime), s.EndTime.Format(time.DateTime))
		if s.Attenuation != "" {
			fmt.Fprintf(tw, "  attenuation:\t%s\n", s.Attenuation)
		}
		if s.Monochromator != "" {
			fmt.Fprintf(tw, "  monochromator:\t%s\n", s.Monochromator)
		}
		fmt.Fprintf(tw, "  wavelength:\t%s ± %s Å\n", s.Wavelength, s.WavelengthResolution)
		fmt.Fprintf(tw, "  divergence:\t%s\n", s.AngularDivergence)
	}
	return tw.Flush()
}

// Header implements Table with one record per data row.
func (r *ScanReport) Header() []string {
	return []string{"file", "segment", "x", "y", "y_err", "count_time"}
}

// Rows implements Table.
func (r *ScanReport) Rows() [][]string {
	var rows [][]string
	for _, s := range r.Scans {
		d := s.dataset
		if d == nil {
			continue
		}
		segment := strconv.Itoa(s.Segment)
		for i := range d.X {
			rows = append(rows, []string{
				s.File,
				segment,
				FormatFloat(d.X[i]),
				FormatFloat(d.Y[i]),
				FormatFloat(d.YErr[i]),
				FormatFloat(d.CountTimes[i]),
			})
		}
	}
	return rows
}

// HeaderReport is the result of the headers command: the header keys whose
// values differ between the segments of a file.
type HeaderReport struct {
	File        string            `json:"file"`
	Segments    int               `json:"segments"`
	Differences []HeaderDiffEntry `json:"differences"`
}

// HeaderDiffEntry is one differing header key. A nil value means the key
// is absent from that segment.
type HeaderDiffEntry struct {
	Key    string    `json:"key"`
	Values []*string `json:"values"`
}

// NewHeaderReport compares the headers of datasets loaded from path.
func NewHeaderReport(path string, datasets []*ras.Dataset) *HeaderReport {
	r := &HeaderReport{File: path, Segments: len(datasets), Differences: []HeaderDiffEntry{}}
	for _, diff := range ras.HeaderDiff(datasets) {
		entry := HeaderDiffEntry{Key: diff.Key, Values: make([]*string, len(diff.Values))}
		for i, v := range diff.Values {
			if v != nil {
				raw := v.Raw
				entry.Values[i] = &raw
			}
		}
		r.Differences = append(r.Differences, entry)
	}
	return r
}

// WriteText renders one line per differing key.
func (r *HeaderReport) WriteText(w io.Writer) error {
	if len(r.Differences) == 0 {
		_, err := fmt.Fprintf(w, "%s: %d segment(s), headers identical\n", r.File, r.Segments)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s: %d segment(s)\n", r.File, r.Segments)
	for _, d := range r.Differences {
		fmt.Fprintf(tw, "%s", d.Key)
		for _, v := range d.Values {
			fmt.Fprintf(tw, "\t%s", displayValue(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Header implements Table with one record per key and segment.
func (r *HeaderReport) Header() []string {
	return []string{"file", "key", "segment", "value", "present"}
}

// Rows implements Table.
func (r *HeaderReport) Rows() [][]string {
	var rows [][]string
	for _, d := range r.Differences {
		for i, v := range d.Values {
			value, present := "", "false"
			if v != nil {
				value, present = *v, "true"
			}
			rows = append(rows, []string{r.File, d.Key, strconv.Itoa(i), value, present})
		}
	}
	return rows
}

func displayValue(v *string) string {
	if v == nil {
		return "<absent>"
	}
	return strconv.Quote(*v)
}
