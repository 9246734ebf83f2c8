package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"mercator-hq/xrdscan/pkg/cache"
)

func TestCacheStatsReport(t *testing.T) {
	used := time.Now().Add(-2 * time.Hour)
	report := NewCacheStatsReport("sqlite", "/tmp/cache.db", cache.Stats{
		Entries:   1234,
		Bytes:     2_500_000,
		OldestUse: used,
		NewestUse: used,
	})

	buf := &bytes.Buffer{}
	if err := report.WriteText(buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"sqlite (/tmp/cache.db)", "1,234", "2.5 MB", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	rows := report.Rows()
	if len(rows) != 1 || rows[0][2] != "1234" || rows[0][3] != "2500000" {
		t.Errorf("Rows() = %v", rows)
	}
}

func TestCacheStatsReport_Empty(t *testing.T) {
	report := NewCacheStatsReport("memory", "", cache.Stats{})

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "oldest_use") || strings.Contains(string(data), "path") {
		t.Errorf("JSON = %s, want empty fields omitted", data)
	}
}

func TestCacheChangeReport(t *testing.T) {
	tests := []struct {
		removed int
		want    string
	}{
		{0, "prune: removed 0 entries\n"},
		{1, "prune: removed 1 entry\n"},
		{1500, "prune: removed 1,500 entries\n"},
	}

	for _, tt := range tests {
		buf := &bytes.Buffer{}
		if err := (&CacheChangeReport{Action: "prune", Removed: tt.removed}).WriteText(buf); err != nil {
			t.Fatalf("WriteText() error = %v", err)
		}
		if buf.String() != tt.want {
			t.Errorf("WriteText() = %q, want %q", buf.String(), tt.want)
		}
	}
}
