package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mercator-hq/xrdscan/pkg/ras"
	"mercator-hq/xrdscan/pkg/ras/rastest"
)

func parseFixture(t *testing.T, segments ...rastest.Segment) []*ras.Dataset {
	t.Helper()
	datasets, err := ras.Parse(rastest.File(segments...))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return datasets
}

func TestSummarize(t *testing.T) {
	d := parseFixture(t, rastest.DefaultSegment().WithRows(
		"10.5000 400 1.0000",
		"10.0000 100 1.0000",
		"11.0000 9 1.0000",
	))[0]

	s := Summarize("scan.ras", 0, d)
	if s.Points != 3 || s.XMin != 10 || s.XMax != 11 {
		t.Errorf("Summarize() points/range = %d [%v, %v]", s.Points, s.XMin, s.XMax)
	}
	if s.Sample != "Si wafer" || s.ScanAxis != "TwoThetaOmega" {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.Attenuation != "0.0001" {
		t.Errorf("Attenuation = %q, want %q", s.Attenuation, "0.0001")
	}
	if s.Monochromator != "Ge(220)x2" {
		t.Errorf("Monochromator = %q, want %q", s.Monochromator, "Ge(220)x2")
	}
}

func TestScanReport_Text(t *testing.T) {
	report := &ScanReport{}
	report.Add("scan.ras", parseFixture(t, rastest.DefaultSegment(), rastest.DefaultSegment()))

	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatText).FormatTo(buf, report); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"scan.ras [segment 0]", "scan.ras [segment 1]", "Si wafer", "Ge(220)x2", "2Theta/Omega (deg)"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestScanReport_JSON(t *testing.T) {
	report := &ScanReport{}
	report.Add("scan.ras", parseFixture(t, rastest.DefaultSegment().With("MEAS_COND_AXIS_POSITION-1", "Unknown(111)")))

	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatJSON).FormatTo(buf, report); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var decoded struct {
		Scans []map[string]any `json:"scans"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Scans) != 1 {
		t.Fatalf("got %d scans, want 1", len(decoded.Scans))
	}
	if v, ok := decoded.Scans[0]["angular_divergence"]; !ok || v != nil {
		t.Errorf("angular_divergence = %v, want null for an unknown crystal", v)
	}
	if decoded.Scans[0]["points"] != float64(2) {
		t.Errorf("points = %v, want 2", decoded.Scans[0]["points"])
	}
}

func TestScanReport_CSV(t *testing.T) {
	report := &ScanReport{}
	report.Add("scan.ras", parseFixture(t, rastest.DefaultSegment()))

	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatCSV).FormatTo(buf, report); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "file,segment,x,y,y_err,count_time" {
		t.Errorf("header = %q", lines[0])
	}
	// Row "10.5000 400 2.5000": y = 400*2.5, y_err = 20*2.5.
	if lines[2] != "scan.ras,0,10.5,1000,50,1.5" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestHeaderReport(t *testing.T) {
	second := rastest.DefaultSegment().
		With("MEAS_SCAN_START_TIME", "03/14/17 10:30:00").
		With("EXTRA_KEY", "1")
	report := NewHeaderReport("scan.ras", parseFixture(t, rastest.DefaultSegment(), second))

	if report.Segments != 2 || len(report.Differences) != 2 {
		t.Fatalf("report = %+v", report)
	}
	extra := report.Differences[0]
	if extra.Key != "EXTRA_KEY" || extra.Values[0] != nil || *extra.Values[1] != "1" {
		t.Errorf("EXTRA_KEY diff = %+v", extra)
	}

	buf := &bytes.Buffer{}
	if err := report.WriteText(buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<absent>") || !strings.Contains(buf.String(), `"03/14/17 10:30:00"`) {
		t.Errorf("text output = %s", buf.String())
	}

	rows := report.Rows()
	if len(rows) != 4 {
		t.Fatalf("got %d CSV rows, want 4", len(rows))
	}
	if rows[0][4] != "false" || rows[1][4] != "true" {
		t.Errorf("presence columns = %v, %v", rows[0], rows[1])
	}
}

func TestHeaderReport_Identical(t *testing.T) {
	report := NewHeaderReport("scan.ras", parseFixture(t, rastest.DefaultSegment()))

	buf := &bytes.Buffer{}
	if err := report.WriteText(buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if !strings.Contains(buf.String(), "headers identical") {
		t.Errorf("text output = %s", buf.String())
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"differences":[]`) {
		t.Errorf("JSON = %s, want empty differences array", data)
	}
}
