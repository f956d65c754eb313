package crl

import (
	log "github.com/sirupsen/logrus"
)

const noNode = -1

//fpNode is a node of an FP-tree. Nodes are stored in FPTree.nodes and refer to each
//other by index; parent is noNode at the root, next is noNode at the end of a header chain.
type fpNode struct {
	attr       Attribute
	count      int
	parent     int
	next       int
	children   []int
	childIndex map[Attribute]int
	labels     map[string]int // rows ending at this node
	accuLabels map[string]int // labels merged with the (already mined) subtree
	shrunk     bool
}

type chainEnds struct {
	head, tail int
}

//FPTree is a prefix tree of the frequent attributes of the training rows with
//per-node class label counts. Every attribute has a chain linking all of its nodes.
type FPTree struct {
	nodes  []fpNode
	header map[Attribute]chainEnds
	flist  FrequencyList
}

func newFPNode(attr Attribute, parent int) fpNode {
	return fpNode{
		attr:       attr,
		parent:     parent,
		next:       noNode,
		childIndex: make(map[Attribute]int),
		labels:     make(map[string]int),
		accuLabels: make(map[string]int),
	}
}

//NewFPTree inserts every row into a new tree. Attributes outside flist are ignored
//and rows left without attributes are skipped.
func NewFPTree(rows []Row, flist FrequencyList) *FPTree {
	tree := &FPTree{
		nodes:  []fpNode{newFPNode(Attribute{Column: -1, Value: -1}, noNode)},
		header: make(map[Attribute]chainEnds),
		flist:  flist,
	}

	skipped := 0
	for _, row := range rows {
		attrs := flist.OrderedAttributes(row)
		if len(attrs) == 0 {
			skipped++
			continue
		}
		tree.insert(attrs, row.Label)
	}

	log.WithFields(log.Fields{"nodes": tree.NodeCount(), "skipped_rows": skipped}).Debug("fp-tree built")
	return tree
}

func (tree *FPTree) insert(attrs []Attribute, label string) {
	current := 0
	for _, attr := range attrs {
		child, ok := tree.nodes[current].childIndex[attr]
		if !ok {
			child = len(tree.nodes)
			tree.nodes = append(tree.nodes, newFPNode(attr, current))
			tree.nodes[current].childIndex[attr] = child
			tree.nodes[current].children = append(tree.nodes[current].children, child)
			tree.link(attr, child)
		}
		tree.nodes[child].count++
		current = child
	}
	tree.nodes[current].labels[label]++
	tree.nodes[current].accuLabels[label]++
}

//link appends the node to the tail of its attribute chain.
func (tree *FPTree) link(attr Attribute, id int) {
	ends, ok := tree.header[attr]
	if !ok {
		tree.header[attr] = chainEnds{head: id, tail: id}
		return
	}
	tree.nodes[ends.tail].next = id
	ends.tail = id
	tree.header[attr] = ends
}

//NodeCount returns the number of nodes without the root.
func (tree *FPTree) NodeCount() int {
	return len(tree.nodes) - 1
}

//chain returns the node ids of an attribute in the order they were created.
func (tree *FPTree) chain(attr Attribute) []int {
	ends, ok := tree.header[attr]
	if !ok {
		return nil
	}
	var ids []int
	for id := ends.head; id != noNode; id = tree.nodes[id].next {
		ids = append(ids, id)
	}
	return ids
}

//ChainCount sums the counts of all nodes of an attribute.
func (tree *FPTree) ChainCount(attr Attribute) int {
	total := 0
	for _, id := range tree.chain(attr) {
		total += tree.nodes[id].count
	}
	return total
}

//find follows a path of attributes from the root, returns noNode when it leaves the tree.
func (tree *FPTree) find(path []Attribute) int {
	current := 0
	for _, attr := range path {
		child, ok := tree.nodes[current].childIndex[attr]
		if !ok {
			return noNode
		}
		current = child
	}
	return current
}

//CountAt returns the count of the node reached by the path, 0 when there is no such node.
func (tree *FPTree) CountAt(path []Attribute) int {
	id := tree.find(path)
	if id == noNode {
		return 0
	}
	return tree.nodes[id].count
}

//LabelsAt returns a copy of the terminal label counts at the node reached by the path.
func (tree *FPTree) LabelsAt(path []Attribute) map[string]int {
	id := tree.find(path)
	if id == noNode {
		return nil
	}
	return copyCounts(tree.nodes[id].labels)
}

//shrink merges the children's accumulated labels into the node, once.
func (tree *FPTree) shrink(id int) {
	node := &tree.nodes[id]
	if node.shrunk {
		return
	}
	for _, child := range node.children {
		addCounts(node.accuLabels, tree.nodes[child].accuLabels)
	}
	node.shrunk = true
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	addCounts(dst, src)
	return dst
}

func addCounts(dst, src map[string]int) {
	for label, count := range src {
		dst[label] += count
	}
}
