package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	cmds := []string{"search", "where", "eval", "sort", "stats", "streamstats"}
	assert.Equal(t, "sort", Closest("sotr", cmds))
	assert.Equal(t, "stats", Closest("STATS", cmds))
	assert.Equal(t, "", Closest("xyzzy", cmds))
	assert.Equal(t, "", Closest("a", nil))
}

func TestHint(t *testing.T) {
	assert.Equal(t, ` (did you mean "avg"?)`, Hint("avgg", []string{"avg", "sum"}))
	assert.Equal(t, "", Hint("avg", []string{"avg", "sum"}))
}
