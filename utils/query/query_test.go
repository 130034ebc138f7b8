package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactConfig = ColumnConfig{
	Columns: map[string]string{
		"name":     "name",
		"email":    "email",
		"isActive": "is_active",
	},
	Searchable: []string{"name", "email", "phone"},
}

func TestCompileEmptyDescriptor(t *testing.T) {
	q, err := Compile(Descriptor{}, contactConfig)
	require.NoError(t, err)

	assert.Empty(t, q.Conditions)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.OrderColumn)
	assert.Zero(t, q.Limit, "zero page size must disable pagination")
}

func TestCompileScalarFilter(t *testing.T) {
	d := Descriptor{
		Filter: []Filter{{Column: "isActive", Value: true}},
	}

	q, err := Compile(d, contactConfig)
	require.NoError(t, err)

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, "is_active", q.Conditions[0].Column)
	assert.False(t, q.Conditions[0].In)
	assert.Equal(t, []interface{}{true}, q.Conditions[0].Values)
}

func TestCompileArrayFilterBecomesIn(t *testing.T) {
	d := Descriptor{
		Filter: []Filter{{Column: "name", Value: []interface{}{"a", "b"}}},
	}

	q, err := Compile(d, contactConfig)
	require.NoError(t, err)

	require.Len(t, q.Conditions, 1)
	assert.True(t, q.Conditions[0].In)
	assert.Equal(t, []interface{}{"a", "b"}, q.Conditions[0].Values)
}

func TestCompileMultipleFiltersKeepOrder(t *testing.T) {
	d := Descriptor{
		Filter: []Filter{
			{Column: "isActive", Value: true},
			{Column: "email", Value: "x@y.z"},
		},
	}

	q, err := Compile(d, contactConfig)
	require.NoError(t, err)

	require.Len(t, q.Conditions, 2)
	assert.Equal(t, "is_active", q.Conditions[0].Column)
	assert.Equal(t, "email", q.Conditions[1].Column)
}

func TestCompileUnknownFilterColumn(t *testing.T) {
	d := Descriptor{
		Filter: []Filter{{Column: "password", Value: "x"}},
	}

	_, err := Compile(d, contactConfig)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestCompileSearchUsesConfiguredColumns(t *testing.T) {
	q, err := Compile(Descriptor{SearchText: "an"}, contactConfig)
	require.NoError(t, err)

	assert.Equal(t, "an", q.Search)
	assert.Equal(t, []string{"name", "email", "phone"}, q.SearchColumns)
}

func TestCompileSort(t *testing.T) {
	q, err := Compile(Descriptor{Sort: Sort{Column: "name", Type: "desc"}}, contactConfig)
	require.NoError(t, err)
	assert.Equal(t, "name", q.OrderColumn)
	assert.True(t, q.OrderDesc)

	q, err = Compile(Descriptor{Sort: Sort{Column: "email", Type: "asc"}}, contactConfig)
	require.NoError(t, err)
	assert.Equal(t, "email", q.OrderColumn)
	assert.False(t, q.OrderDesc)

	// Empty sort object means store-default order
	q, err = Compile(Descriptor{Sort: Sort{}}, contactConfig)
	require.NoError(t, err)
	assert.Empty(t, q.OrderColumn)
}

func TestCompileUnknownSortColumn(t *testing.T) {
	_, err := Compile(Descriptor{Sort: Sort{Column: "nope", Type: "asc"}}, contactConfig)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestCompileUnknownSortDirection(t *testing.T) {
	_, err := Compile(Descriptor{Sort: Sort{Column: "name", Type: "sideways"}}, contactConfig)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestCompilePaginationWindow(t *testing.T) {
	d := Descriptor{Pagination: Pagination{PageIndex: 3, PageSize: 20}}

	q, err := Compile(d, contactConfig)
	require.NoError(t, err)

	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 60, q.Offset)
}

func TestCompileNegativePageIndexClampsToFirstPage(t *testing.T) {
	d := Descriptor{Pagination: Pagination{PageIndex: -1, PageSize: 10}}

	q, err := Compile(d, contactConfig)
	require.NoError(t, err)

	assert.Equal(t, 10, q.Limit)
	assert.Zero(t, q.Offset)
}

func TestCompileZeroPageSizeReturnsAllRows(t *testing.T) {
	d := Descriptor{Pagination: Pagination{PageIndex: 5, PageSize: 0}}

	q, err := Compile(d, contactConfig)
	require.NoError(t, err)

	assert.Zero(t, q.Limit)
	assert.Zero(t, q.Offset)
}
