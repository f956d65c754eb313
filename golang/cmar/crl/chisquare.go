package crl

import (
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

//SignificanceLevel is the level the rule filter tests at.
const SignificanceLevel = 0.05

//criticalValues holds the 0.05 critical values of the chi-square distribution for df 1..30.
var criticalValues = [...]float64{
	3.841, 5.991, 7.815, 9.488, 11.070, 12.592, 14.067, 15.507, 16.919, 18.307,
	19.675, 21.026, 22.362, 23.685, 24.996, 26.296, 27.587, 28.869, 30.144, 31.410,
	32.671, 33.924, 35.172, 36.415, 37.652, 38.885, 40.113, 41.337, 42.557, 43.773,
}

//CriticalValue returns the chi-square threshold for the degrees of freedom.
//ok is false for df < 1: with a single class there is nothing to test.
func CriticalValue(df int) (value float64, ok bool) {
	if df < 1 {
		return 0, false
	}
	if df <= len(criticalValues) {
		return criticalValues[df-1], true
	}
	return distuv.ChiSquared{K: float64(df)}.Quantile(1 - SignificanceLevel), true
}

//PValue is the probability of a statistic at least as large under independence.
func PValue(chiSquare float64, df int) float64 {
	if df < 1 {
		return 1
	}
	return distuv.ChiSquared{K: float64(df)}.Survival(chiSquare)
}

//PearsonChiSquare computes sum((O-E)^2/E) of a contingency table, E being
//rowTotal*colTotal/total. Cells with zero expectation contribute nothing.
func PearsonChiSquare(observed [][]float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	rowTotals := make([]float64, len(observed))
	colTotals := make([]float64, len(observed[0]))
	total := 0.0
	for r, row := range observed {
		for c, val := range row {
			rowTotals[r] += val
			colTotals[c] += val
			total += val
		}
	}
	if total == 0 {
		return 0
	}

	chiSquare := 0.0
	for r, row := range observed {
		for c, val := range row {
			expected := rowTotals[r] * colTotals[c] / total
			if expected == 0 {
				continue
			}
			d := val - expected
			chiSquare += d * d / expected
		}
	}
	return chiSquare
}

//contingencyTables keeps the 2 x labels tables of a batch of rules in one
//[rules, 2, labels] tensor. The first row counts matching records, the second the rest.
type contingencyTables struct {
	labelIndex map[string]int
	labels     int
	cells      *tensor.Dense
}

func newContingencyTables(rules []Rule, rows []Row, labels []string) *contingencyTables {
	tables := &contingencyTables{labelIndex: make(map[string]int, len(labels)), labels: len(labels)}
	for ind, label := range labels {
		tables.labelIndex[label] = ind
	}
	if len(rules) == 0 || len(labels) == 0 {
		return tables
	}
	tables.cells = tensor.New(tensor.WithShape(len(rules), 2, len(labels)), tensor.Of(tensor.Float64))

	for _, row := range rows {
		col, ok := tables.labelIndex[row.Label]
		if !ok {
			continue
		}
		for r, rule := range rules {
			side := 1
			if rule.Matches(row.Values) {
				side = 0
			}
			tables.add(r, side, col)
		}
	}
	return tables
}

func (tables *contingencyTables) add(rule, side, col int) {
	val, err := tables.cells.At(rule, side, col)
	HandleError(err)
	HandleError(tables.cells.SetAt(val.(float64)+1, rule, side, col))
}

//observed extracts the table of one rule.
func (tables *contingencyTables) observed(rule int) [][]float64 {
	observed := [][]float64{make([]float64, tables.labels), make([]float64, tables.labels)}
	if tables.cells == nil {
		return observed
	}
	for side := 0; side < 2; side++ {
		for col := 0; col < tables.labels; col++ {
			val, err := tables.cells.At(rule, side, col)
			HandleError(err)
			observed[side][col] = val.(float64)
		}
	}
	return observed
}

func (tables *contingencyTables) chiSquare(rule int) float64 {
	return PearsonChiSquare(tables.observed(rule))
}
