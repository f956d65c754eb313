package crl

import (
	log "github.com/sirupsen/logrus"
)

//DefaultMaxCandidates bounds the candidate table, mining stops once it is exceeded.
const DefaultMaxCandidates = 2000

//Candidate is a condition set with the class label counts of the rows it covers.
type Candidate struct {
	Conditions []Attribute
	Labels     map[string]int
}

//CandidateTable accumulates candidates during mining. Condition sets are stored in
//frequency list order so one set is never kept under two keys, and iteration follows
//the order of first insertion.
type CandidateTable struct {
	flist   FrequencyList
	limit   int
	index   map[string]int
	entries []Candidate
}

//NewCandidateTable creates an empty table. A non-positive limit disables the cap.
func NewCandidateTable(flist FrequencyList, limit int) *CandidateTable {
	return &CandidateTable{flist: flist, limit: limit, index: make(map[string]int)}
}

//Merge adds the label counts to the entry of the condition set, creating it if needed.
func (table *CandidateTable) Merge(conditions []Attribute, labels map[string]int) {
	canonical := append([]Attribute(nil), conditions...)
	table.flist.sortByRank(canonical)
	key := attributesKey(canonical)

	if ind, ok := table.index[key]; ok {
		addCounts(table.entries[ind].Labels, labels)
		return
	}
	table.index[key] = len(table.entries)
	table.entries = append(table.entries, Candidate{Conditions: canonical, Labels: copyCounts(labels)})
}

//Get returns the label counts of a condition set given in any order.
func (table *CandidateTable) Get(conditions []Attribute) (map[string]int, bool) {
	canonical := append([]Attribute(nil), conditions...)
	table.flist.sortByRank(canonical)
	ind, ok := table.index[attributesKey(canonical)]
	if !ok {
		return nil, false
	}
	return table.entries[ind].Labels, true
}

//Len returns the number of distinct condition sets.
func (table *CandidateTable) Len() int {
	return len(table.entries)
}

//Full reports whether the table has grown past its limit.
func (table *CandidateTable) Full() bool {
	return table.limit > 0 && len(table.entries) > table.limit
}

//Candidates returns the entries in insertion order.
func (table *CandidateTable) Candidates() []Candidate {
	return table.entries
}

//combine records prefix+attrs[ind] for every ind and recurses into the attributes
//that precede ind, giving every subset of attrs joined with the prefix.
func (table *CandidateTable) combine(attrs, prefix []Attribute, labels map[string]int) {
	if table.Full() {
		return
	}
	for ind, attr := range attrs {
		key := make([]Attribute, len(prefix), len(prefix)+1)
		copy(key, prefix)
		key = append(key, attr)
		table.Merge(key, labels)
		if ind != 0 {
			table.combine(attrs[:ind], key, labels)
		}
	}
}

//conditionalPath is one prefix path of a mined attribute, ordered from the root side.
type conditionalPath struct {
	attrs  []Attribute
	weight int
	labels map[string]int
}

//Mine walks the frequent attributes from the rarest to the most frequent and fills
//the table with the candidates found in their conditional pattern bases.
//Mining consumes the accumulated label counts of the tree, so a tree is mined once.
func (tree *FPTree) Mine(minSupport float64, table *CandidateTable) {
	items := tree.flist.Items
	for ind := len(items) - 1; ind >= 0; ind-- {
		if table.Full() {
			log.WithField("candidates", table.Len()).Warn("candidate table is full, mining stopped early")
			break
		}
		tree.mineAttribute(items[ind].Attribute, minSupport, table)
	}
	log.WithField("candidates", table.Len()).Debug("mining finished")
}

func (tree *FPTree) mineAttribute(base Attribute, minSupport float64, table *CandidateTable) {
	paths := tree.conditionalBase(base)

	totals := make(map[Attribute]int)
	for _, path := range paths {
		for _, attr := range path.attrs {
			totals[attr] += path.weight
		}
	}

	filtered := make([]conditionalPath, 0, len(paths))
	for _, path := range paths {
		kept := make([]Attribute, 0, len(path.attrs))
		for _, attr := range path.attrs {
			if float64(totals[attr]) >= minSupport {
				kept = append(kept, attr)
			}
		}
		if len(kept) == 0 {
			continue
		}
		filtered = append(filtered, conditionalPath{attrs: kept, weight: path.weight, labels: path.labels})
	}

	if len(filtered) == 1 {
		table.Merge(filtered[0].attrs, filtered[0].labels)
		return
	}
	for _, path := range filtered {
		last := len(path.attrs) - 1
		table.combine(path.attrs[:last], path.attrs[last:], path.labels)
	}
}

//conditionalBase collects one path per node of the attribute chain. Every node is shrunk
//first; its descendants carry rarer attributes and were shrunk by earlier passes.
func (tree *FPTree) conditionalBase(base Attribute) []conditionalPath {
	chain := tree.chain(base)
	paths := make([]conditionalPath, 0, len(chain))
	for _, id := range chain {
		tree.shrink(id)

		var upward []Attribute
		for current := id; current != 0 && current != noNode; current = tree.nodes[current].parent {
			upward = append(upward, tree.nodes[current].attr)
		}
		attrs := make([]Attribute, len(upward))
		for ind, attr := range upward {
			attrs[len(upward)-1-ind] = attr
		}

		paths = append(paths, conditionalPath{
			attrs:  attrs,
			weight: tree.nodes[id].count,
			labels: copyCounts(tree.nodes[id].accuLabels),
		})
	}
	return paths
}
