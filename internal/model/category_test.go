package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCategoriesStableOrder(t *testing.T) {
	first := ServiceCategories()
	require.Len(t, first, 16)

	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool {
		return first[i] < first[j]
	}))

	// Repeated calls return the same sequence.
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ServiceCategories())
	}
}

func TestServiceCategoryValid(t *testing.T) {
	assert.True(t, CategoryBrake.Valid())
	assert.True(t, CategoryMaintenance.Valid())
	assert.False(t, ServiceCategory("welding").Valid())
}

func TestServiceCategoryLabel(t *testing.T) {
	assert.Equal(t, "Brake Service", CategoryBrake.Label())
	assert.Equal(t, "welding", ServiceCategory("welding").Label())
}
