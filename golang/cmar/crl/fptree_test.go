package crl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFPTreeCounts(t *testing.T) {
	rows := scenarioRows()
	tree := NewFPTree(rows, NewFrequencyList(rows, 1))

	assert.Equal(t, 6, tree.NodeCount())
	assert.Equal(t, 5, tree.CountAt([]Attribute{attr(1, 1)}))
	assert.Equal(t, 3, tree.CountAt([]Attribute{attr(1, 1), attr(0, 0)}))
	assert.Equal(t, 2, tree.CountAt([]Attribute{attr(1, 1), attr(2, 1)}))
	assert.Equal(t, 0, tree.CountAt([]Attribute{attr(0, 0)}))

	assert.Equal(t, map[string]int{"A": 2}, tree.LabelsAt([]Attribute{attr(1, 1), attr(0, 0), attr(2, 0)}))
	assert.Equal(t, map[string]int{"B": 2}, tree.LabelsAt([]Attribute{attr(1, 1), attr(2, 1), attr(0, 1)}))
	assert.Empty(t, tree.LabelsAt([]Attribute{attr(1, 1)}))
}

func TestFPTreeHeaderChains(t *testing.T) {
	rows := scenarioRows()
	flist := NewFrequencyList(rows, 1)
	tree := NewFPTree(rows, flist)

	for _, item := range flist.Items {
		assert.Equal(t, item.Count, tree.ChainCount(item.Attribute), "chain of %v", item.Attribute)
	}
	assert.Len(t, tree.chain(attr(2, 1)), 2)

	seen := make(map[int]bool)
	for _, item := range flist.Items {
		for _, id := range tree.chain(item.Attribute) {
			assert.False(t, seen[id], "node %d is linked twice", id)
			seen[id] = true
			assert.Equal(t, item.Attribute, tree.nodes[id].attr)
		}
	}
	assert.Len(t, seen, tree.NodeCount())
}

func TestFPTreeSkipsRowsWithoutFrequentAttributes(t *testing.T) {
	rows := append(scenarioRows(), Row{Values: []int{7, 7, 7}, Label: "C"})
	tree := NewFPTree(rows, NewFrequencyList(rows, 2))

	assert.Equal(t, 0, tree.ChainCount(attr(0, 7)))
	assert.Equal(t, 5, tree.CountAt([]Attribute{attr(1, 1)}))
}
