package crl

import (
	"fmt"
	"sort"
	"strings"
)

//Attribute is a (column, value) condition. Values are pre-discretized codes.
type Attribute struct {
	Column int
	Value  int
}

func (attr Attribute) String() string {
	return fmt.Sprintf("c%d=%d", attr.Column, attr.Value)
}

//Less orders attributes by column and then by value.
func (attr Attribute) Less(other Attribute) bool {
	if attr.Column != other.Column {
		return attr.Column < other.Column
	}
	return attr.Value < other.Value
}

//Matches reports whether a record carries the attribute. Columns outside the record never match.
func (attr Attribute) Matches(record []int) bool {
	return attr.Column >= 0 && attr.Column < len(record) && record[attr.Column] == attr.Value
}

//Row is one training record: encoded attribute values and a class label.
type Row struct {
	Values []int
	Label  string
}

//Attributes returns the (column, value) pairs of the row in column order.
func (row Row) Attributes() []Attribute {
	attrs := make([]Attribute, len(row.Values))
	for col, val := range row.Values {
		attrs[col] = Attribute{Column: col, Value: val}
	}
	return attrs
}

//RulePayload is what a rule store node carries when a rule ends at it.
type RulePayload struct {
	Label        string
	Support      int
	Confidence   float64
	ChiSquare    float64
	HasChiSquare bool
}

//Rule is a class association rule: Conditions -> Label.
//Support is an absolute row count, use SupportFraction for the relative form.
type Rule struct {
	Conditions   []Attribute
	Label        string
	Support      int
	Confidence   float64
	ChiSquare    float64
	HasChiSquare bool
}

//SupportFraction returns the support relative to the given number of rows.
func (rule Rule) SupportFraction(total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(rule.Support) / float64(total)
}

//Matches reports whether every condition of the rule holds for the record.
func (rule Rule) Matches(record []int) bool {
	for _, cond := range rule.Conditions {
		if !cond.Matches(record) {
			return false
		}
	}
	return true
}

//Payload strips the conditions off the rule.
func (rule Rule) Payload() *RulePayload {
	return &RulePayload{
		Label:        rule.Label,
		Support:      rule.Support,
		Confidence:   rule.Confidence,
		ChiSquare:    rule.ChiSquare,
		HasChiSquare: rule.HasChiSquare,
	}
}

func (rule Rule) String() string {
	conds := make([]string, len(rule.Conditions))
	for ind, cond := range rule.Conditions {
		conds[ind] = cond.String()
	}
	return fmt.Sprintf("(%s) -> %s [sup %d, conf %.4f, chi2 %.4f]",
		strings.Join(conds, ", "), rule.Label, rule.Support, rule.Confidence, rule.ChiSquare)
}

//Key is a canonical string for the condition set and label, independent of condition order.
func (rule Rule) Key() string {
	conds := append([]Attribute(nil), rule.Conditions...)
	sort.Slice(conds, func(i, j int) bool { return conds[i].Less(conds[j]) })
	return attributesKey(conds) + "->" + rule.Label
}

func attributesKey(attrs []Attribute) string {
	var sb strings.Builder
	for ind, attr := range attrs {
		if ind > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(attr.String())
	}
	return sb.String()
}

//dominates reports whether an existing payload at depth existingLen beats
//an incoming rule of length incomingLen: higher confidence, then higher support,
//then the shorter condition set.
func dominates(existing *RulePayload, existingLen int, incoming Rule) bool {
	if existing.Confidence != incoming.Confidence {
		return existing.Confidence > incoming.Confidence
	}
	if existing.Support != incoming.Support {
		return existing.Support > incoming.Support
	}
	return existingLen < len(incoming.Conditions)
}

//rankBefore is the ordering used by the coverage pass: confidence, support and
//the longer condition set first, with conditions and label as the final tie-break.
func rankBefore(a, b Rule) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	if len(a.Conditions) != len(b.Conditions) {
		return len(a.Conditions) > len(b.Conditions)
	}
	for ind := range a.Conditions {
		if a.Conditions[ind] != b.Conditions[ind] {
			return a.Conditions[ind].Less(b.Conditions[ind])
		}
	}
	return a.Label < b.Label
}
