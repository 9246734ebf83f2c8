package main

import (
	"strings"
	"testing"

	"mercator-hq/xrdscan/pkg/cli"
	"mercator-hq/xrdscan/pkg/ras/rastest"
)

func TestHeaders(t *testing.T) {
	path := twoSegmentFile(t)

	out, err := execute(t, "headers", path)
	if err != nil {
		t.Fatalf("headers returned error: %v", err)
	}

	if !strings.Contains(out, "FILE_SAMPLE") || !strings.Contains(out, `"Si wafer, rotated"`) {
		t.Errorf("headers output missing the differing sample:\n%s", out)
	}
	if strings.Contains(out, "MEAS_SCAN_AXIS_X ") {
		t.Errorf("headers output lists an identical key:\n%s", out)
	}
}

func TestHeaders_Identical(t *testing.T) {
	seg := rastest.DefaultSegment()
	path := rastest.WriteFile(t, "same.ras", rastest.File(seg, seg))

	out, err := execute(t, "headers", path)
	if err != nil {
		t.Fatalf("headers returned error: %v", err)
	}
	if !strings.Contains(out, "headers identical") {
		t.Errorf("headers output = %q", out)
	}
}

func TestHeaders_RequiresOneFile(t *testing.T) {
	_, err := execute(t, "headers")
	if cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("headers without a file: exit code %d, want %d", cli.ExitCode(err), cli.ExitUsage)
	}
}
