package crl

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

//ScoreCandidate turns a candidate into a rule predicting its most frequent label.
//Equal counts go to the smallest label. Confidence is 0 when the candidate covers no rows.
func ScoreCandidate(candidate Candidate) Rule {
	rule := Rule{Conditions: append([]Attribute(nil), candidate.Conditions...)}
	total := 0
	for _, label := range sortedLabels(candidate.Labels) {
		count := candidate.Labels[label]
		total += count
		if count > rule.Support || rule.Label == "" {
			rule.Label = label
			rule.Support = count
		}
	}
	if total > 0 {
		rule.Confidence = float64(rule.Support) / float64(total)
	}
	return rule
}

//FilterCandidates scores every candidate, drops those under minSupport or minConfidence
//and keeps only rules whose chi-square test against the rows is significant.
//Rules come back in candidate order with ChiSquare filled in.
func FilterCandidates(candidates []Candidate, rows []Row, minSupport, minConfidence float64) []Rule {
	scored := make([]Rule, 0, len(candidates))
	for _, candidate := range candidates {
		rule := ScoreCandidate(candidate)
		if float64(rule.Support) < minSupport || rule.Confidence < minConfidence {
			continue
		}
		scored = append(scored, rule)
	}

	support, _ := LabelSupport(rows)
	labels := sortedLabels(support)
	threshold, testable := CriticalValue(len(labels) - 1)

	tables := newContingencyTables(scored, rows, labels)
	kept := make([]Rule, 0, len(scored))
	for ind, rule := range scored {
		rule.ChiSquare = tables.chiSquare(ind)
		rule.HasChiSquare = true
		if testable && rule.ChiSquare < threshold {
			continue
		}
		kept = append(kept, rule)
	}

	log.WithFields(log.Fields{
		"candidates":  len(candidates),
		"thresholded": len(scored),
		"significant": len(kept),
	}).Debug("candidates filtered")
	return kept
}

func sortedLabels(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
