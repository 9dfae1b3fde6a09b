package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/domain"
)

func TestCategories(t *testing.T) {
	cats := Categories(fixtureProducts())
	assert.Equal(t, []string{domain.AllCategories, "beauty", "furniture"}, cats)
	assert.Equal(t, []string{domain.AllCategories}, Categories(nil))
}

func TestFindByID(t *testing.T) {
	p, err := FindByID(fixtureProducts(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Office Chair", p.Title)

	_, err = FindByID(fixtureProducts(), 42)
	assert.True(t, domain.IsProductNotFoundError(err))
}

func TestNextCategory(t *testing.T) {
	cats := []string{domain.AllCategories, "beauty", "furniture"}
	assert.Equal(t, "beauty", NextCategory(cats, domain.AllCategories, 1))
	assert.Equal(t, domain.AllCategories, NextCategory(cats, "furniture", 1))
	assert.Equal(t, "furniture", NextCategory(cats, domain.AllCategories, -1))
	assert.Equal(t, domain.AllCategories, NextCategory(cats, "gone", 1))
	assert.Equal(t, domain.AllCategories, NextCategory(nil, "x", 1))
}
