package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderPlaceholders(t *testing.T) {
	q := New(PlaceholderQuestion)
	assert.Equal(t, "?", q.Arg(1))
	assert.Equal(t, "?", q.Arg("x"))
	assert.Equal(t, []any{1, "x"}, q.Args())

	d := New(PlaceholderDollar)
	for i := 1; i <= 11; i++ {
		d.Arg(i)
	}
	assert.Equal(t, "$12", d.Arg(12))
	assert.Equal(t, 12, d.Len())
	assert.Equal(t, "dollar", d.Style.String())
}
