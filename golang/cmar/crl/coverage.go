package crl

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

//DefaultCoverageThreshold is how many retained rules may cover a row before it is dropped.
const DefaultCoverageThreshold = 4

type coveredRow struct {
	values  []int
	covered int
}

//RankRules sorts rules by confidence, support and then the longer condition set,
//ties being broken by the conditions and the label.
func RankRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool { return rankBefore(rules[i], rules[j]) })
}

//SelectByCoverage walks the ranked rules and counts how often every row is matched.
//A row covered more than threshold times takes no further part. Every rule visited
//is retained, and the walk ends once all rows are gone.
func SelectByCoverage(ranked []Rule, threshold int, rows []Row) []Rule {
	remaining := make([]coveredRow, len(rows))
	for ind, row := range rows {
		remaining[ind] = coveredRow{values: row.Values}
	}

	retained := make([]Rule, 0, len(ranked))
	for _, rule := range ranked {
		if len(remaining) == 0 {
			break
		}
		kept := remaining[:0]
		for _, row := range remaining {
			if rule.Matches(row.values) {
				row.covered++
			}
			if row.covered <= threshold {
				kept = append(kept, row)
			}
		}
		remaining = kept
		retained = append(retained, rule)
	}
	return retained
}

//PruneByCoverage ranks the rules of the store, keeps the ones selected by the
//coverage pass and returns them in a new store built without pruning.
func PruneByCoverage(store *RuleStore, threshold int, rows []Row) (*RuleStore, int) {
	rules := store.Rules()
	RankRules(rules)
	retained := SelectByCoverage(rules, threshold, rows)

	final := NewRuleStore()
	final.InsertAll(retained, false)

	log.WithFields(log.Fields{"rules": len(rules), "retained": len(retained)}).Debug("coverage pruning done")
	return final, len(retained)
}
