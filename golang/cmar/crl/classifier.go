package crl

import (
	"math"
)

//LabelSupport counts the rows of every class and returns the counts with the row total.
func LabelSupport(rows []Row) (support map[string]int, total int) {
	support = make(map[string]int)
	for _, row := range rows {
		support[row.Label]++
	}
	return support, len(rows)
}

//MajorityLabel returns the most frequent label, the smallest one on a tie.
func MajorityLabel(support map[string]int) (string, error) {
	if len(support) == 0 {
		return "", ErrEmptyLabelSupport
	}
	best := ""
	bestCount := -1
	for _, label := range sortedLabels(support) {
		if support[label] > bestCount {
			best, bestCount = label, support[label]
		}
	}
	return best, nil
}

//MatchedRule is a rule of the store found to hold for a record.
type MatchedRule struct {
	Conditions []Attribute
	RulePayload
}

//Match returns the rules of the store that hold for the record, grouped by label.
//labels lists the groups in the order they were first hit.
func (store *RuleStore) Match(record []int) (matched map[string][]MatchedRule, labels []string) {
	matched = make(map[string][]MatchedRule)
	path := make([]Attribute, 0)
	stack := store.pushChildren(nil, 0, 0)
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := store.nodes[frame.id]
		if !node.attr.Matches(record) {
			continue
		}
		path = append(path[:frame.depth], node.attr)
		if node.payload != nil {
			label := node.payload.Label
			if _, ok := matched[label]; !ok {
				labels = append(labels, label)
			}
			matched[label] = append(matched[label], MatchedRule{
				Conditions:  append([]Attribute(nil), path...),
				RulePayload: *node.payload,
			})
		}
		stack = store.pushChildren(stack, frame.id, frame.depth+1)
	}
	return matched, labels
}

//MaxChiSquare is the largest chi-square a rule could reach given the class support,
//the support of its conditions and the number of rows. ok is false when the bound
//is undefined, e.g. when the conditions or the class cover every row.
func MaxChiSquare(classSupport, conditionSupport, total float64) (value float64, ok bool) {
	denominators := []float64{
		classSupport * conditionSupport,
		classSupport * (total - conditionSupport),
		conditionSupport * (total - classSupport),
		(total - classSupport) * (total - conditionSupport),
	}
	e := 0.0
	for _, d := range denominators {
		if d == 0 {
			return 0, false
		}
		e += 1 / d
	}
	d := math.Min(classSupport, conditionSupport) - classSupport*conditionSupport/total
	value = d * d * total * e
	return value, value > 0
}

//WeightedChiSquare scores one rule for a label: chi2^2 / maxChi2.
func WeightedChiSquare(rule RulePayload, classSupport, total int) float64 {
	if rule.Confidence <= 0 || total <= 0 {
		return 0
	}
	conditionSupport := math.Round(float64(rule.Support) / rule.Confidence)
	maxChiSquare, ok := MaxChiSquare(float64(classSupport), conditionSupport, float64(total))
	if !ok {
		return 0
	}
	return rule.ChiSquare * rule.ChiSquare / maxChiSquare
}

//Classify predicts the label of a record: the label whose matching rules reach the largest
//weighted chi-square, the smallest label on a tie. Without matching rules the majority
//label of labelSupport is returned.
func Classify(record []int, store *RuleStore, labelSupport map[string]int, trainRows int) (string, error) {
	if len(labelSupport) == 0 {
		return "", ErrEmptyLabelSupport
	}
	matched, labels := store.Match(record)
	if len(labels) == 0 {
		return MajorityLabel(labelSupport)
	}

	best := ""
	bestScore := math.Inf(-1)
	for _, label := range labels {
		score := 0.0
		for _, rule := range matched[label] {
			score += WeightedChiSquare(rule.RulePayload, labelSupport[label], trainRows)
		}
		if score > bestScore || (score == bestScore && label < best) {
			best, bestScore = label, score
		}
	}
	return best, nil
}

//Classifier binds a final rule store to the class support of its training rows.
type Classifier struct {
	Store        *RuleStore
	LabelSupport map[string]int
	TrainRows    int
}

//NewClassifier computes the class support of the rows the store was trained on.
func NewClassifier(store *RuleStore, trainRows []Row) (*Classifier, error) {
	support, total := LabelSupport(trainRows)
	if len(support) == 0 {
		return nil, ErrEmptyLabelSupport
	}
	return &Classifier{Store: store, LabelSupport: support, TrainRows: total}, nil
}

//Classify predicts the label of one record.
func (clf *Classifier) Classify(record []int) (string, error) {
	return Classify(record, clf.Store, clf.LabelSupport, clf.TrainRows)
}
