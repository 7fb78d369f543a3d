package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveQuery(OutcomeOK)
	c.ObserveQuery(OutcomeOK)
	c.ObserveQuery(OutcomeUnparsable)
	c.ObserveParse(2 * time.Millisecond)
	c.ObservePostFilter(10, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.queries.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queries.WithLabelValues(OutcomeUnparsable)))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.candidates))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.rejected))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP strsift_postfilter_rejected_total Rows the positional post-filter removed
# TYPE strsift_postfilter_rejected_total counter
strsift_postfilter_rejected_total 7
`), "strsift_postfilter_rejected_total")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "strsift_parse_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilCollectorsIsNoop(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveQuery(OutcomeError)
		c.ObserveParse(time.Second)
		c.ObservePostFilter(1, 1)
	})
}
