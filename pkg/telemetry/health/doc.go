// Package health runs self-checks for the xrdscan doctor command.
//
// A Checker holds named CheckFuncs and runs them concurrently, each with
// its own timeout. A check that returns ErrDisabled is reported as
// disabled rather than unhealthy, so an installation that turns the cache
// off is still ready.
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.Register("cache", health.CacheCheck(store))
//	checker.Register("metrics", health.TextfileCheck(cfg.Telemetry.Metrics.TextfilePath))
//
//	report := checker.Run(ctx)
//	if !report.Healthy() {
//		// at least one check failed
//	}
package health
