package remap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/importmend/core/cache"
)

func TestIncremental(t *testing.T) {
	root := filepath.Join(t.TempDir(), "src")
	first := writeFile(t, root, "p/q/x.ts", "import a from '../n/a'\n")

	r, out := newRemapper(t, root, crossRules)
	inc := NewIncremental(r, cache.NewContentCache())

	summary, err := inc.Prime()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, "import a from '../r/a'\n", readFile(t, first))
	out.Reset()

	t.Run("unchanged files are skipped", func(t *testing.T) {
		summary := inc.Process([]string{first})
		assert.Equal(t, 0, summary.Scanned)
		assert.Empty(t, out.String())
	})

	t.Run("moved in file is fixed", func(t *testing.T) {
		moved := writeFile(t, root, "p/r/y.ts", "import b from '../m/b'\n")
		summary := inc.Process([]string{moved})
		assert.Equal(t, 1, summary.Fixed)
		assert.Equal(t, "import b from '../q/b'\n", readFile(t, moved))
		assert.Equal(t, "Fixed "+moved+"\n", out.String())
		out.Reset()

		// The remapper's own write does not trigger another pass.
		summary = inc.Process([]string{moved})
		assert.Equal(t, 0, summary.Scanned)
	})

	t.Run("ineligible and outside paths are ignored", func(t *testing.T) {
		notes := writeFile(t, root, "p/q/notes.md", "import a from '../n/a'\n")
		outside := writeFile(t, filepath.Dir(root), "other/z.ts", "import a from '../n/a'\n")

		summary := inc.Process([]string{notes, outside})
		assert.Equal(t, 0, summary.Scanned)
		assert.Equal(t, "import a from '../n/a'\n", readFile(t, notes))
		assert.Equal(t, "import a from '../n/a'\n", readFile(t, outside))
	})

	t.Run("deleted file is skipped", func(t *testing.T) {
		summary := inc.Process([]string{filepath.Join(root, "gone.ts")})
		assert.Equal(t, 0, summary.Scanned)
	})
}
