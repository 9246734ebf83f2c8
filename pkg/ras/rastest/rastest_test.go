package rastest

import (
	"testing"

	"mercator-hq/xrdscan/pkg/ras"
)

func TestFile_Parses(t *testing.T) {
	second := DefaultSegment().With("MEAS_SCAN_START_TIME", "03/14/17 10:30:00").WithRows("11.0000 9 1.0000")

	datasets, err := ras.Parse(File(DefaultSegment(), second))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(datasets) != 2 {
		t.Fatalf("got %d datasets, want 2", len(datasets))
	}
	if datasets[1].Len() != 1 || datasets[1].X[0] != 11 {
		t.Errorf("second segment = %v", datasets[1].X)
	}
}
