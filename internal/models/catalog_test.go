package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupActivityCaseInsensitive(t *testing.T) {
	activity, ok := LookupActivity("journal publication")
	require.True(t, ok)
	assert.Equal(t, "Journal Publication", activity.Name)
	assert.Equal(t, CategoryResearch, activity.Category)
	assert.Equal(t, 15, activity.Credits)

	_, ok = LookupActivity("unknown activity")
	assert.False(t, ok)
}

func TestActivityCatalogWellFormed(t *testing.T) {
	for _, a := range ActivityCatalog() {
		assert.True(t, ValidCategory(a.Category), "activity %q has invalid category", a.Name)
		assert.Greater(t, a.Credits, 0, "activity %q has no credit value", a.Name)
	}
}
