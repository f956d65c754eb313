package crl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestScoreCandidate(t *testing.T) {
	rule := ScoreCandidate(Candidate{
		Conditions: []Attribute{attr(0, 1)},
		Labels:     map[string]int{"B": 3, "A": 1},
	})
	assert.Equal(t, "B", rule.Label)
	assert.Equal(t, 3, rule.Support)
	assert.InDelta(t, 0.75, rule.Confidence, 1e-12)
	assert.False(t, rule.HasChiSquare)

	tie := ScoreCandidate(Candidate{Labels: map[string]int{"B": 2, "A": 2}})
	assert.Equal(t, "A", tie.Label)

	empty := ScoreCandidate(Candidate{Labels: map[string]int{"A": 0}})
	assert.Equal(t, 0.0, empty.Confidence)
}

func TestFilterScenario(t *testing.T) {
	rows := scenarioRows()
	table := mineScenario(t, DefaultMaxCandidates)

	rules := FilterCandidates(table.Candidates(), rows, 1, 0.6)
	require.Len(t, rules, 2)

	assert.Equal(t, []Attribute{attr(1, 1), attr(0, 0), attr(2, 0)}, rules[0].Conditions)
	assert.Equal(t, "A", rules[0].Label)
	assert.Equal(t, 2, rules[0].Support)
	assert.Equal(t, 1.0, rules[0].Confidence)
	assert.InDelta(t, 5.0, rules[0].ChiSquare, 1e-9)
	assert.True(t, rules[0].HasChiSquare)

	assert.Equal(t, []Attribute{attr(1, 1), attr(2, 1)}, rules[1].Conditions)
	assert.Equal(t, "B", rules[1].Label)
	assert.Equal(t, 3, rules[1].Support)
	assert.InDelta(t, 5.0, rules[1].ChiSquare, 1e-9)
}

func TestFilterRechecksThresholds(t *testing.T) {
	rows := scenarioRows()
	candidates := []Candidate{
		{Conditions: []Attribute{attr(1, 1), attr(0, 0)}, Labels: map[string]int{"A": 2, "B": 1}},
	}
	assert.Empty(t, FilterCandidates(candidates, rows, 1, 0.7))
	assert.Empty(t, FilterCandidates(candidates, rows, 3, 0))
}

func TestFilterSingleClassNeverPrunes(t *testing.T) {
	rows := []Row{
		{Values: []int{0}, Label: "A"},
		{Values: []int{1}, Label: "A"},
	}
	candidates := []Candidate{{Conditions: []Attribute{attr(0, 0)}, Labels: map[string]int{"A": 1}}}

	rules := FilterCandidates(candidates, rows, 0, 0)
	require.Len(t, rules, 1)
	assert.Equal(t, 0.0, rules[0].ChiSquare)
}

func independentRows() []Row {
	var rows []Row
	for _, value := range []int{0, 1} {
		for _, label := range []string{"A", "B"} {
			for ind := 0; ind < 10; ind++ {
				rows = append(rows, Row{Values: []int{value}, Label: label})
			}
		}
	}
	return rows
}

func TestChiSquareGateDropsIndependentAttribute(t *testing.T) {
	rows := independentRows()
	candidates := []Candidate{{Conditions: []Attribute{attr(0, 0)}, Labels: map[string]int{"A": 10, "B": 10}}}

	assert.Empty(t, FilterCandidates(candidates, rows, 0, 0))
	assert.Equal(t, 0, BuildRules(rows, 0, 0).Len())
}

func TestPearsonChiSquare(t *testing.T) {
	observed := [][]float64{{2, 0}, {0, 3}}
	assert.InDelta(t, 5.0, PearsonChiSquare(observed), 1e-9)

	allMatch := [][]float64{{2, 3}, {0, 0}}
	assert.Equal(t, 0.0, PearsonChiSquare(allMatch))
	assert.Equal(t, 0.0, PearsonChiSquare(nil))
}

func TestCriticalValues(t *testing.T) {
	_, ok := CriticalValue(0)
	assert.False(t, ok)

	for df := 1; df <= 30; df++ {
		value, ok := CriticalValue(df)
		require.True(t, ok)
		expected := distuv.ChiSquared{K: float64(df)}.Quantile(0.95)
		assert.InDelta(t, expected, value, 1e-3, "df %d", df)
	}

	value, ok := CriticalValue(31)
	require.True(t, ok)
	assert.InDelta(t, 44.985, value, 1e-3)

	assert.InDelta(t, 0.05, PValue(3.841, 1), 1e-3)
	assert.Equal(t, 1.0, PValue(10, 0))
}
