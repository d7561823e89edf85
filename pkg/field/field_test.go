package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDotted(t *testing.T) {
	assert.Equal(t, Path{"a", "b", "c"}, Dotted("a.b.c"))
	assert.Nil(t, Dotted(""))
	assert.Equal(t, "a.b", Dotted("a.b").String())
	assert.Equal(t, "c", Dotted("a.b.c").Leaf())
}

func TestHasPrefix(t *testing.T) {
	p := Dotted("a.b.c")
	assert.True(t, p.HasPrefix(Dotted("a.b")))
	assert.True(t, p.HasPrefix(nil))
	assert.False(t, p.HasPrefix(Dotted("a.c")))
	assert.False(t, Dotted("a").HasPrefix(p))
}

func TestList(t *testing.T) {
	l := DottedList("a,b.c")
	assert.True(t, l.Has(Dotted("b.c")))
	assert.False(t, l.Has(Dotted("b")))
	assert.Equal(t, "a,b.c", l.String())
}
