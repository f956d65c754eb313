package crl

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

//FrequentItem is an attribute together with the number of rows carrying it.
type FrequentItem struct {
	Attribute
	Count int
}

//FrequencyList holds the frequent attributes ordered by count descending.
//Equal counts are ordered by column and then by value.
type FrequencyList struct {
	Items []FrequentItem
	rank  map[Attribute]int
}

//NewFrequencyList counts every (column, value) pair of the rows and keeps those
//with count >= minSupport.
func NewFrequencyList(rows []Row, minSupport float64) FrequencyList {
	counts := make(map[Attribute]int)
	for _, row := range rows {
		for _, attr := range row.Attributes() {
			counts[attr]++
		}
	}

	items := make([]FrequentItem, 0, len(counts))
	for attr, count := range counts {
		if float64(count) >= minSupport {
			items = append(items, FrequentItem{Attribute: attr, Count: count})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Attribute.Less(items[j].Attribute)
	})

	flist := FrequencyList{Items: items, rank: make(map[Attribute]int, len(items))}
	for ind, item := range items {
		flist.rank[item.Attribute] = ind
	}

	log.WithFields(log.Fields{"attributes": len(counts), "frequent": len(items)}).Debug("frequency list built")
	return flist
}

//Len returns the number of frequent attributes.
func (flist FrequencyList) Len() int {
	return len(flist.Items)
}

//Rank returns the position of a frequent attribute, ok is false for infrequent ones.
func (flist FrequencyList) Rank(attr Attribute) (rank int, ok bool) {
	rank, ok = flist.rank[attr]
	return
}

//OrderedAttributes returns the frequent attributes of a row in frequency list order.
func (flist FrequencyList) OrderedAttributes(row Row) []Attribute {
	attrs := make([]Attribute, 0, len(row.Values))
	for _, attr := range row.Attributes() {
		if _, ok := flist.rank[attr]; ok {
			attrs = append(attrs, attr)
		}
	}
	flist.sortByRank(attrs)
	return attrs
}

func (flist FrequencyList) sortByRank(attrs []Attribute) {
	sort.SliceStable(attrs, func(i, j int) bool {
		return flist.rankOrTail(attrs[i]) < flist.rankOrTail(attrs[j])
	})
}

//rankOrTail places attributes unknown to the list after all known ones.
func (flist FrequencyList) rankOrTail(attr Attribute) int {
	if rank, ok := flist.rank[attr]; ok {
		return rank
	}
	return len(flist.Items)
}
