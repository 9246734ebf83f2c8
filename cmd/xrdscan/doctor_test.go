package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/xrdscan/pkg/cli"
)

func TestDoctor_Defaults(t *testing.T) {
	out, err := execute(t, "doctor")
	if err != nil {
		t.Fatalf("doctor returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "status: ready") {
		t.Errorf("doctor output = %q", out)
	}
}

func TestDoctor_JSON(t *testing.T) {
	useSQLiteCache(t)

	out, err := execute(t, "doctor", "--format", "json")
	if err != nil {
		t.Fatalf("doctor returned error: %v", err)
	}

	var report struct {
		Status string `json:"status"`
		Checks []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	got := map[string]string{}
	for _, c := range report.Checks {
		got[c.Name] = c.Status
	}
	if got["cache"] != "ok" || got["metrics"] != "disabled" || got["config"] != "ok" {
		t.Errorf("checks = %v", got)
	}
}

func TestDoctor_UnwritableMetrics(t *testing.T) {
	t.Setenv("XRDSCAN_TELEMETRY_METRICS_ENABLED", "true")
	t.Setenv("XRDSCAN_TELEMETRY_METRICS_TEXTFILE_PATH", filepath.Join(t.TempDir(), "missing", "xrdscan.prom"))

	out, err := execute(t, "doctor")
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("doctor exit code = %d, want %d", cli.ExitCode(err), cli.ExitFailure)
	}
	if !strings.Contains(out, "status: degraded") {
		t.Errorf("doctor output = %q", out)
	}
}
