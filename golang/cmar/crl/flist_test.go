package crl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//scenarioRows is a small two class dataset with three attribute columns.
func scenarioRows() []Row {
	return []Row{
		{Values: []int{0, 1, 0}, Label: "A"},
		{Values: []int{0, 1, 0}, Label: "A"},
		{Values: []int{0, 1, 1}, Label: "B"},
		{Values: []int{1, 1, 1}, Label: "B"},
		{Values: []int{1, 1, 1}, Label: "B"},
	}
}

func attr(col, val int) Attribute {
	return Attribute{Column: col, Value: val}
}

func TestFrequencyListOrder(t *testing.T) {
	flist := NewFrequencyList(scenarioRows(), 1)

	expected := []FrequentItem{
		{attr(1, 1), 5},
		{attr(0, 0), 3},
		{attr(2, 1), 3},
		{attr(0, 1), 2},
		{attr(2, 0), 2},
	}
	assert.Equal(t, expected, flist.Items)

	rank, ok := flist.Rank(attr(2, 1))
	require.True(t, ok)
	assert.Equal(t, 2, rank)
}

func TestFrequencyListThreshold(t *testing.T) {
	flist := NewFrequencyList(scenarioRows(), 3)

	assert.Equal(t, 3, flist.Len())
	_, ok := flist.Rank(attr(2, 0))
	assert.False(t, ok)

	ordered := flist.OrderedAttributes(Row{Values: []int{0, 1, 0}})
	assert.Equal(t, []Attribute{attr(1, 1), attr(0, 0)}, ordered)
}

func TestFrequencyListEmpty(t *testing.T) {
	flist := NewFrequencyList(nil, 0)
	assert.Equal(t, 0, flist.Len())
	assert.Empty(t, flist.OrderedAttributes(Row{Values: []int{1, 2}}))
}
