package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProvidesAllUseCases(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	for _, uc := range []string{"data", "ingest", "pipeline", "repair", "test", "sdk"} {
		doc, err := catalog.Lookup(uc)
		require.NoError(t, err, "use case %s", uc)
		assert.NotEmpty(t, doc, "use case %s", uc)
	}
}

func TestLookupDistinctDocuments(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	data, err := catalog.Lookup("data")
	require.NoError(t, err)
	pipeline, err := catalog.Lookup("pipeline")
	require.NoError(t, err)
	assert.NotEqual(t, data, pipeline)
}

func TestLookupWapAliasesIngest(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	ingest, err := catalog.Lookup("ingest")
	require.NoError(t, err)
	wap, err := catalog.Lookup("wap")
	require.NoError(t, err)
	assert.Equal(t, ingest, wap)
}

func TestLookupCaseInsensitive(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	lower, err := catalog.Lookup("pipeline")
	require.NoError(t, err)
	upper, err := catalog.Lookup("PIPELINE")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)

	trimmed, err := catalog.Lookup("  pipeline  ")
	require.NoError(t, err)
	assert.Equal(t, lower, trimmed)
}

func TestLookupInvalidKeyListsValidSet(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	_, err = catalog.Lookup("nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid use_case "nonsense"`)
	for _, key := range catalog.ValidKeys() {
		assert.Contains(t, err.Error(), key)
	}
}

func TestIngestDocDoesNotDirectMergeIntoMain(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	// The branch guard rejects merge_branch into main, so the guidance
	// must route the publish step through an operator instead.
	ingest, err := catalog.Lookup("ingest")
	require.NoError(t, err)
	assert.NotContains(t, ingest, "`merge_branch` from the ingest branch into `main`")
	assert.Contains(t, ingest, "outside")
}

func TestValidKeysSortedAndComplete(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	keys := catalog.ValidKeys()
	assert.Equal(t, []string{"data", "ingest", "pipeline", "repair", "sdk", "test", "wap"}, keys)
}
