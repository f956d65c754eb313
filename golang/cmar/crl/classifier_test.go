package crl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioClassifier(t *testing.T) *Classifier {
	rows := scenarioRows()
	final, _ := PruneByCoverage(BuildRules(rows, 1, 0.6), DefaultCoverageThreshold, rows)
	clf, err := NewClassifier(final, rows)
	require.NoError(t, err)
	return clf
}

func TestClassifyScenario(t *testing.T) {
	clf := scenarioClassifier(t)

	label, err := clf.Classify([]int{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, "A", label)

	label, err = clf.Classify([]int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, "B", label)
}

func TestClassifyFallsBackToMajority(t *testing.T) {
	clf := scenarioClassifier(t)

	label, err := clf.Classify([]int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "B", label)

	label, err = clf.Classify(nil)
	require.NoError(t, err)
	assert.Equal(t, "B", label)
}

func TestClassifyEmptyLabelSupport(t *testing.T) {
	_, err := Classify([]int{0, 1, 0}, NewRuleStore(), map[string]int{}, 5)
	assert.ErrorIs(t, err, ErrEmptyLabelSupport)

	_, err = NewClassifier(NewRuleStore(), nil)
	assert.ErrorIs(t, err, ErrEmptyLabelSupport)
}

func TestClassifyIsTotal(t *testing.T) {
	rows := randomRows(3, 200, 4, 3, 3)
	model, err := Train(rows, TrainParams{MinSupport: 0.02, MinConfidence: 0.5, CoverageThreshold: 4})
	require.NoError(t, err)

	for _, record := range [][]int{{0, 0, 0, 0}, {2, 2, 2, 2}, {9, 9, 9, 9}, {1}, {}} {
		label, err := model.Predict(record)
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "B", "C"}, label)
	}
}

func TestMatchCollectsRulesPerLabel(t *testing.T) {
	store := NewRuleStore()
	store.InsertAll([]Rule{
		newRule("A", 2, 1, attr(0, 1)),
		newRule("B", 1, 0.5, attr(0, 1), attr(1, 1)),
		newRule("A", 1, 1, attr(0, 1), attr(1, 0)),
		newRule("B", 3, 1, attr(1, 1)),
	}, false)

	matched, labels := store.Match([]int{1, 1})
	assert.Equal(t, []string{"A", "B"}, labels)
	require.Len(t, matched["A"], 1)
	require.Len(t, matched["B"], 2)
	assert.Equal(t, []Attribute{attr(0, 1), attr(1, 1)}, matched["B"][0].Conditions)
	assert.Equal(t, []Attribute{attr(1, 1)}, matched["B"][1].Conditions)
}

func TestWeightedChiSquare(t *testing.T) {
	rule := RulePayload{Label: "A", Support: 2, Confidence: 1, ChiSquare: 5}

	maxChiSquare, ok := MaxChiSquare(2, 2, 5)
	require.True(t, ok)
	assert.InDelta(t, 5.0, maxChiSquare, 1e-9)
	assert.InDelta(t, 5.0, WeightedChiSquare(rule, 2, 5), 1e-9)

	// conditions covering every row give no bound
	_, ok = MaxChiSquare(2, 5, 5)
	assert.False(t, ok)
	assert.Equal(t, 0.0, WeightedChiSquare(RulePayload{Support: 5, Confidence: 1, ChiSquare: 1}, 2, 5))
	assert.Equal(t, 0.0, WeightedChiSquare(RulePayload{Support: 0, Confidence: 0}, 2, 5))
}

func TestClassifyTieGoesToSmallestLabel(t *testing.T) {
	store := NewRuleStore()
	store.InsertAll([]Rule{
		newRule("B", 2, 1, attr(0, 1)),
		newRule("A", 2, 1, attr(1, 1)),
	}, false)
	store.nodes[1].payload.ChiSquare = 3
	store.nodes[2].payload.ChiSquare = 3

	label, err := Classify([]int{1, 1}, store, map[string]int{"A": 2, "B": 2}, 6)
	require.NoError(t, err)
	assert.Equal(t, "A", label)

	majority, err := MajorityLabel(map[string]int{"B": 2, "A": 2})
	require.NoError(t, err)
	assert.Equal(t, "A", majority)
}
