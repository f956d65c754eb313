package crl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mineScenario(t *testing.T, limit int) *CandidateTable {
	rows := scenarioRows()
	flist := NewFrequencyList(rows, 1)
	table := NewCandidateTable(flist, limit)
	NewFPTree(rows, flist).Mine(1, table)
	return table
}

func TestMineScenarioCandidates(t *testing.T) {
	table := mineScenario(t, DefaultMaxCandidates)

	expected := []Candidate{
		{Conditions: []Attribute{attr(1, 1), attr(0, 0), attr(2, 0)}, Labels: map[string]int{"A": 2}},
		{Conditions: []Attribute{attr(1, 1), attr(2, 1), attr(0, 1)}, Labels: map[string]int{"B": 2}},
		{Conditions: []Attribute{attr(1, 1), attr(2, 1)}, Labels: map[string]int{"B": 3}},
		{Conditions: []Attribute{attr(0, 0), attr(2, 1)}, Labels: map[string]int{"B": 1}},
		{Conditions: []Attribute{attr(1, 1), attr(0, 0), attr(2, 1)}, Labels: map[string]int{"B": 1}},
		{Conditions: []Attribute{attr(1, 1), attr(0, 0)}, Labels: map[string]int{"A": 2, "B": 1}},
		{Conditions: []Attribute{attr(1, 1)}, Labels: map[string]int{"A": 2, "B": 3}},
	}
	assert.Equal(t, expected, table.Candidates())
}

func TestMineMergesPathsOfOneAttribute(t *testing.T) {
	table := mineScenario(t, DefaultMaxCandidates)

	labels, ok := table.Get([]Attribute{attr(2, 1), attr(1, 1)})
	require.True(t, ok)
	assert.Equal(t, map[string]int{"B": 3}, labels)
}

func TestMineStopsAtCandidateLimit(t *testing.T) {
	table := mineScenario(t, 1)

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.Full())
}

func TestCandidateTableCopiesLabels(t *testing.T) {
	rows := scenarioRows()
	table := NewCandidateTable(NewFrequencyList(rows, 1), 0)
	labels := map[string]int{"A": 1}

	table.Merge([]Attribute{attr(2, 0), attr(1, 1)}, labels)
	table.Merge([]Attribute{attr(1, 1), attr(2, 0)}, labels)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, map[string]int{"A": 1}, labels)
	assert.Equal(t, map[string]int{"A": 2}, table.Candidates()[0].Labels)
	assert.Equal(t, []Attribute{attr(1, 1), attr(2, 0)}, table.Candidates()[0].Conditions)
	assert.False(t, table.Full())
}

func TestCombineEnumeratesSubsets(t *testing.T) {
	rows := []Row{{Values: []int{0, 0, 0, 0}, Label: "A"}}
	flist := NewFrequencyList(rows, 1)
	table := NewCandidateTable(flist, 0)

	table.combine([]Attribute{attr(0, 0), attr(1, 0), attr(2, 0)}, []Attribute{attr(3, 0)}, map[string]int{"A": 1})

	// every non-empty subset of the three attributes joined with the base
	assert.Equal(t, 7, table.Len())
	_, ok := table.Get([]Attribute{attr(3, 0), attr(0, 0), attr(2, 0)})
	assert.True(t, ok)
}
