package plugin_test

import (
	"testing"

	Ep "github.com/maroda/epicycle/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputLookup(t *testing.T) {
	t.Run("Returns known outputs", func(t *testing.T) {
		for name, want := range map[string]string{"badger": "BadgerDB", "plot": "Plot"} {
			got, err := Ep.OutputLookup(name, t.TempDir(), 4)
			require.NoError(t, err)
			assert.Equal(t, want, got.Type())
			assert.NoError(t, got.Close())
		}
	})

	t.Run("Returns error if outputs don't exist", func(t *testing.T) {
		got, err := Ep.OutputLookup("craquemattic", t.TempDir(), 4)
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
