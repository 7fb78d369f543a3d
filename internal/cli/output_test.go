package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strsift/strsift/strsift"
	"github.com/strsift/strsift/strsift/textstat"
)

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"pretty", "values", "json"} {
		f, err := ParseOutputFormat(s)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(s), f)
	}
	_, err := ParseOutputFormat("paths")
	assert.Error(t, err)
}

func TestPrinterResult(t *testing.T) {
	res := &strsift.SearchResult{
		Records: []strsift.Record{
			{Value: "level", Properties: textstat.Analyze("level")},
			{Value: "sky", Properties: textstat.Analyze("sky")},
		},
		Count: 2,
	}

	var buf bytes.Buffer
	require.NoError(t, newPrinter(&buf, FormatValues).result("", res, time.Millisecond))
	assert.Equal(t, "level\nsky\n", buf.String())

	buf.Reset()
	require.NoError(t, newPrinter(&buf, FormatPretty).result("== q", res, 3*time.Millisecond))
	out := buf.String()
	assert.Contains(t, out, "== q\nFound 2 strings in 3ms\n")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "level")

	buf.Reset()
	require.NoError(t, newPrinter(&buf, FormatJSON).result("", res, 0))
	assert.Contains(t, buf.String(), `"count": 2`)
}
