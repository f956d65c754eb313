package crl

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	condA = attr(0, 1)
	condB = attr(1, 1)
	condC = attr(2, 1)
	condD = attr(3, 1)
)

func newRule(label string, support int, confidence float64, conditions ...Attribute) Rule {
	return Rule{Conditions: conditions, Label: label, Support: support, Confidence: confidence}
}

func TestInsertRejectsDominatedRule(t *testing.T) {
	store := NewRuleStore()
	require.True(t, store.Insert(newRule("A", 5, 0.9, condA), true))

	assert.False(t, store.Insert(newRule("B", 9, 0.8, condA, condB), true))
	assert.False(t, store.Insert(newRule("B", 4, 0.9, condA, condB), true))
	assert.False(t, store.Insert(newRule("B", 5, 0.9, condA, condB), true))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.NodeCount())

	assert.True(t, store.Insert(newRule("B", 6, 0.9, condA, condB), true))
	assert.True(t, store.Insert(newRule("B", 1, 0.95, condA, condC), true))
	assert.Equal(t, 3, store.Len())
	assert.NoError(t, store.Validate())
}

func TestInsertOverwritesAtSameNode(t *testing.T) {
	store := NewRuleStore()
	require.True(t, store.Insert(newRule("A", 2, 0.8, condA, condB), true))

	assert.False(t, store.Insert(newRule("B", 2, 0.7, condA, condB), true))
	assert.True(t, store.Insert(newRule("B", 2, 0.8, condA, condB), true))

	rules := store.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "B", rules[0].Label)
}

func TestSweepRemovesDominatedLeaves(t *testing.T) {
	store := NewRuleStore()
	require.True(t, store.Insert(newRule("A", 3, 0.6, condA, condB, condC), true))
	require.True(t, store.Insert(newRule("B", 2, 0.7, condA, condD), true))
	assert.Equal(t, 4, store.NodeCount())

	require.True(t, store.Insert(newRule("A", 4, 0.8, condA), true))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.NodeCount())
	assert.Equal(t, 0, store.AttributeNodes(condB))
	assert.Equal(t, 0, store.AttributeNodes(condC))
	assert.Equal(t, 1, store.AttributeNodes(condA))
	assert.NoError(t, store.Validate())
}

func TestSweepClearsInnerPayload(t *testing.T) {
	store := NewRuleStore()
	require.True(t, store.Insert(newRule("A", 3, 0.6, condA, condB), true))
	require.True(t, store.Insert(newRule("B", 1, 0.95, condA, condB, condC), true))

	require.True(t, store.Insert(newRule("A", 2, 0.9, condA), true))

	assert.Equal(t, 3, store.NodeCount())
	rules := store.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, []Attribute{condA}, rules[0].Conditions)
	assert.Equal(t, []Attribute{condA, condB, condC}, rules[1].Conditions)
	assert.NoError(t, store.Validate())
}

func TestSweepEqualConfidence(t *testing.T) {
	weaker := NewRuleStore()
	require.True(t, weaker.Insert(newRule("B", 2, 0.9, condA, condB), true))
	require.True(t, weaker.Insert(newRule("A", 3, 0.9, condA), true))
	assert.Equal(t, 1, weaker.Len())

	stronger := NewRuleStore()
	require.True(t, stronger.Insert(newRule("B", 5, 0.9, condA, condB), true))
	require.True(t, stronger.Insert(newRule("A", 3, 0.9, condA), true))
	assert.Equal(t, 2, stronger.Len())
	assert.NoError(t, stronger.Validate())
}

func TestInsertWithoutPruning(t *testing.T) {
	store := NewRuleStore()
	assert.Equal(t, 3, store.InsertAll([]Rule{
		newRule("A", 5, 0.9, condA),
		newRule("B", 1, 0.5, condA, condB),
		newRule("B", 1, 0.5, condA, condB, condC),
	}, false))
	assert.Equal(t, 3, store.Len())
	assert.Error(t, store.Validate())

	assert.False(t, store.Insert(Rule{Label: "A"}, false))
}

func randomRows(seed int64, n, columns, values, labels int) []Row {
	rnd := rand.New(rand.NewSource(seed))
	rows := make([]Row, n)
	for ind := range rows {
		row := Row{Values: make([]int, columns)}
		for col := range row.Values {
			row.Values[col] = rnd.Intn(values)
		}
		// the label leans on the first column so that significant rules exist
		label := row.Values[0] % labels
		if rnd.Float64() < 0.2 {
			label = rnd.Intn(labels)
		}
		row.Label = string(rune('A' + label))
		rows[ind] = row
	}
	return rows
}

func TestDominanceInvariantOnMinedStores(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rows := randomRows(seed, 120, 5, 3, 3)
		store := BuildRules(rows, 3, 0.3)
		require.NoError(t, store.Validate(), "seed %d", seed)
		assert.NotZero(t, store.Len(), "seed %d", seed)

		final, count := PruneByCoverage(store, DefaultCoverageThreshold, rows)
		assert.Equal(t, count, final.Len())
		require.NoError(t, final.Validate(), "seed %d", seed)
	}
}
