package health

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/xrdscan/pkg/cache"
)

func TestChecker_NoChecks(t *testing.T) {
	report := New(0).Run(context.Background())

	if report.Status != StatusReady {
		t.Errorf("Status = %q, want %q", report.Status, StatusReady)
	}
	if len(report.Checks) != 0 {
		t.Errorf("Checks = %v, want none", report.Checks)
	}
}

func TestChecker_Statuses(t *testing.T) {
	checker := New(time.Second)
	checker.Register("good", func(context.Context) error { return nil })
	checker.Register("off", func(context.Context) error { return ErrDisabled })
	checker.Register("bad", func(context.Context) error { return errors.New("broken") })

	report := checker.Run(context.Background())

	if report.Healthy() {
		t.Error("report with a failing check should not be healthy")
	}
	want := []struct{ name, status, message string }{
		{"good", StatusOK, ""},
		{"off", StatusDisabled, ""},
		{"bad", StatusUnhealthy, "broken"},
	}
	if len(report.Checks) != len(want) {
		t.Fatalf("got %d results, want %d", len(report.Checks), len(want))
	}
	for i, w := range want {
		got := report.Checks[i]
		if got.Name != w.name || got.Status != w.status || got.Message != w.message {
			t.Errorf("Checks[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestChecker_DisabledIsReady(t *testing.T) {
	checker := New(time.Second)
	checker.Register("cache", CacheCheck(nil))
	checker.Register("metrics", TextfileCheck(""))

	if report := checker.Run(context.Background()); !report.Healthy() {
		t.Errorf("disabled components should leave the report ready: %+v", report)
	}
}

func TestChecker_Timeout(t *testing.T) {
	checker := New(10 * time.Millisecond)
	checker.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	report := checker.Run(context.Background())
	if report.Checks[0].Status != StatusUnhealthy || report.Checks[0].Message != "check timed out" {
		t.Errorf("slow check = %+v, want timeout", report.Checks[0])
	}
}

func TestChecker_RegisterReplaces(t *testing.T) {
	checker := New(time.Second)
	checker.Register("a", func(context.Context) error { return errors.New("old") })
	checker.Register("b", func(context.Context) error { return nil })
	checker.Register("a", func(context.Context) error { return nil })

	names := checker.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
	if !checker.Run(context.Background()).Healthy() {
		t.Error("replaced check should pass")
	}
}

func TestCacheCheck(t *testing.T) {
	store := cache.NewMemoryStore(4)
	if err := CacheCheck(store)(context.Background()); err != nil {
		t.Errorf("CacheCheck(open store) = %v", err)
	}
}

func TestTextfileCheck(t *testing.T) {
	dir := t.TempDir()
	if err := TextfileCheck(filepath.Join(dir, "xrdscan.prom"))(context.Background()); err != nil {
		t.Errorf("TextfileCheck(writable dir) = %v", err)
	}

	missing := filepath.Join(dir, "missing", "xrdscan.prom")
	if err := TextfileCheck(missing)(context.Background()); err == nil {
		t.Error("TextfileCheck(missing dir) should fail")
	}
}
