package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"mercator-hq/xrdscan/pkg/cache"
)

// CacheStatsReport is the result of the cache stats command.
type CacheStatsReport struct {
	Backend   string     `json:"backend"`
	Path      string     `json:"path,omitempty"`
	Entries   int        `json:"entries"`
	Bytes     int64      `json:"source_bytes"`
	OldestUse *time.Time `json:"oldest_use,omitempty"`
	NewestUse *time.Time `json:"newest_use,omitempty"`
}

// NewCacheStatsReport builds the report for a store. path is empty for
// in-memory stores.
func NewCacheStatsReport(backend, path string, st cache.Stats) *CacheStatsReport {
	r := &CacheStatsReport{
		Backend: backend,
		Path:    path,
		Entries: st.Entries,
		Bytes:   st.Bytes,
	}
	if !st.OldestUse.IsZero() {
		oldest, newest := st.OldestUse, st.NewestUse
		r.OldestUse, r.NewestUse = &oldest, &newest
	}
	return r
}

// WriteText renders the report for people.
func (r *CacheStatsReport) WriteText(w io.Writer) error {
	backend := r.Backend
	if r.Path != "" {
		backend += " (" + r.Path + ")"
	}
	fmt.Fprintf(w, "backend:      %s\n", backend)
	fmt.Fprintf(w, "entries:      %s\n", humanize.Comma(int64(r.Entries)))
	fmt.Fprintf(w, "source bytes: %s\n", humanize.Bytes(uint64(r.Bytes)))
	if r.OldestUse != nil {
		fmt.Fprintf(w, "oldest use:   %s\n", humanize.Time(*r.OldestUse))
		fmt.Fprintf(w, "newest use:   %s\n", humanize.Time(*r.NewestUse))
	}
	return nil
}

// Header implements Table.
func (r *CacheStatsReport) Header() []string {
	return []string{"backend", "path", "entries", "source_bytes", "oldest_use", "newest_use"}
}

// Rows implements Table.
func (r *CacheStatsReport) Rows() [][]string {
	var oldest, newest string
	if r.OldestUse != nil {
		oldest = r.OldestUse.UTC().Format(time.RFC3339)
		newest = r.NewestUse.UTC().Format(time.RFC3339)
	}
	return [][]string{{
		r.Backend,
		r.Path,
		strconv.Itoa(r.Entries),
		strconv.FormatInt(r.Bytes, 10),
		oldest,
		newest,
	}}
}

// CacheChangeReport is the result of cache prune and cache clear.
type CacheChangeReport struct {
	Action  string `json:"action"`
	Removed int    `json:"removed"`
}

// WriteText renders the report for people.
func (r *CacheChangeReport) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: removed %s %s\n", r.Action, humanize.Comma(int64(r.Removed)), plural(r.Removed, "entry", "entries"))
	return err
}

// Header implements Table.
func (r *CacheChangeReport) Header() []string {
	return []string{"action", "removed"}
}

// Rows implements Table.
func (r *CacheChangeReport) Rows() [][]string {
	return [][]string{{r.Action, strconv.Itoa(r.Removed)}}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
