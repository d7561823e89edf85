package srcfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	l, err := Concat(nil, "search a\n| head x y")
	require.NoError(t, err)
	const expected = `bad thing at line 2, column 10:
| head x y
     === ^ ===`
	assert.Equal(t, expected, l.Describe("bad thing", 18))
}

func TestConcatIncludes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inc.spl")
	require.NoError(t, os.WriteFile(path, []byte("search a"), 0o644))
	l, err := Concat([]string{path}, "| head 1")
	require.NoError(t, err)
	assert.Equal(t, "search a\n| head 1", l.Text)
	assert.Equal(t, path, l.FileOf(2).Name)
	assert.Equal(t, "", l.FileOf(10).Name)
	assert.Contains(t, l.Describe("oops", 3), "in "+path)
}
