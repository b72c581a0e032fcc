package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.Greater(t, table.Len(), 0)

	variants, ok := table.Lookup("revo")
	require.True(t, ok)
	assert.Contains(t, variants, "รีโว่")
	assert.Contains(t, variants, "ລີໂວ້")
}

func TestLookupNormalizesQuery(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	upper, ok := table.Lookup(" REVO ")
	require.True(t, ok)
	lower, _ := table.Lookup("revo")
	assert.Equal(t, lower, upper)
}

func TestLookupUnknown(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	_, ok := table.Lookup("tractor")
	assert.False(t, ok)
	_, ok = table.Lookup("")
	assert.False(t, ok)
}

func TestLoadOverride(t *testing.T) {
	raw := `nicknames:
  - name: kolf
    variants: [Golf, กอล์ฟ]
  - name: empty
    variants: []
`
	path := filepath.Join(t.TempDir(), "nicknames.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	table, err := Load(path)
	require.NoError(t, err)

	variants, ok := table.Lookup("kolf")
	require.True(t, ok)
	// The nickname itself leads the variant set.
	assert.Equal(t, []string{"kolf", "Golf", "กอล์ฟ"}, variants)

	// Entries without variants are dropped.
	_, ok = table.Lookup("empty")
	assert.False(t, ok)
}

func TestLookupResultIsCallerOwned(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	first, ok := table.Lookup("revo")
	require.True(t, ok)
	require.NotEmpty(t, first)

	// Mutating the returned slice must not corrupt the table.
	first[0] = "clobbered"
	first = append(first, "extra")

	second, ok := table.Lookup("revo")
	require.True(t, ok)
	assert.NotContains(t, second, "clobbered")
	assert.NotContains(t, second, "extra")
	assert.Equal(t, "revo", second[0])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
