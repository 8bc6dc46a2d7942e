package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatheredValue returns the counter or gauge value of the named metric whose
// labels include all of want.
func gatheredValue(t *testing.T, reg *prom.Registry, name string, want map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s %v not found", name, want)
	return 0
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncEntryAdded("article")
	pr.IncEntryAdded("article")
	pr.IncEntryAdded("index")
	pr.IncEntryExcluded(ExcludedPrivate)
	pr.IncFallback("priority")
	pr.IncFileWritten("xml", true)
	pr.SetEntriesWritten(3)
	pr.ObserveBuildDuration(150 * time.Millisecond)

	assert.InDelta(t, 2, gatheredValue(t, reg, "sitemapgen_entries_added_total", map[string]string{"kind": "article"}), 0)
	assert.InDelta(t, 1, gatheredValue(t, reg, "sitemapgen_entries_excluded_total", map[string]string{"reason": "private"}), 0)
	assert.InDelta(t, 1, gatheredValue(t, reg, "sitemapgen_files_written_total", map[string]string{"format": "xml", "compressed": "true"}), 0)
	assert.InDelta(t, 3, gatheredValue(t, reg, "sitemapgen_entries_written", nil), 0)
	assert.Positive(t, gatheredValue(t, reg, "sitemapgen_last_write_timestamp_seconds", nil))
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncEntryAdded("page")
	pr.IncFallback("frequency")
	pr.IncFileWritten("txt", false)
	pr.ObserveBuildDuration(time.Second)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncFileWritten("txt", false)

	path := filepath.Join(t.TempDir(), "sitemapgen.prom")
	require.NoError(t, WriteTextfile(path, pr.Registry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitemapgen_files_written_total{compressed="false",format="txt"} 1`)
}
