package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/config"
)

func TestDialectSet(t *testing.T) {
	t.Parallel()

	d := config.NewDialect()
	for _, name := range config.DialectFeatures() {
		assert.True(t, d.Enabled(name), name)
		require.NoError(t, d.Set(name, false))
		assert.False(t, d.Enabled(name), name)
	}
	assert.Equal(t, config.Dialect{}, d)

	require.NoError(t, d.Set("internal-links", true))
	assert.True(t, d.InternalLinks)
	require.NoError(t, d.Set("Block_IDs", true))
	assert.True(t, d.BlockIDs)

	err := d.Set("tables", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tables")
	assert.False(t, d.Enabled("tables"))
}
