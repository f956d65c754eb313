package crl

import (
	"github.com/pkg/errors"
)

//crNode is a node of a rule store. A node carries a payload when a rule ends at it.
//Detached nodes stay in the slice but are no longer reachable from the root.
type crNode struct {
	attr       Attribute
	depth      int
	parent     int
	next       int
	children   []int
	childIndex map[Attribute]int
	payload    *RulePayload
	detached   bool
}

//RuleStore is a prefix tree of rules (CR-tree): a rule is the path of conditions from
//the root to the node that carries its payload, so rules share common prefixes.
type RuleStore struct {
	nodes  []crNode
	header map[Attribute]chainEnds
}

//NewRuleStore returns an empty store.
func NewRuleStore() *RuleStore {
	return &RuleStore{
		nodes:  []crNode{newCRNode(Attribute{Column: -1, Value: -1}, noNode, 0)},
		header: make(map[Attribute]chainEnds),
	}
}

func newCRNode(attr Attribute, parent, depth int) crNode {
	return crNode{attr: attr, depth: depth, parent: parent, next: noNode, childIndex: make(map[Attribute]int)}
}

func (store *RuleStore) addNode(attr Attribute, parent int) int {
	id := len(store.nodes)
	store.nodes = append(store.nodes, newCRNode(attr, parent, store.nodes[parent].depth+1))
	store.nodes[parent].childIndex[attr] = id
	store.nodes[parent].children = append(store.nodes[parent].children, id)

	ends, ok := store.header[attr]
	if !ok {
		store.header[attr] = chainEnds{head: id, tail: id}
	} else {
		store.nodes[ends.tail].next = id
		ends.tail = id
		store.header[attr] = ends
	}
	return id
}

//Insert adds a rule. With prune set, the rule is rejected when a payload on its path
//dominates it, and once written it invalidates the weaker rules below it.
//Insert reports whether the rule was written.
func (store *RuleStore) Insert(rule Rule, prune bool) bool {
	if len(rule.Conditions) == 0 {
		return false
	}

	current := 0
	for _, attr := range rule.Conditions {
		child, ok := store.nodes[current].childIndex[attr]
		if !ok {
			child = store.addNode(attr, current)
		} else if existing := store.nodes[child].payload; prune && existing != nil &&
			dominates(existing, store.nodes[child].depth, rule) {
			return false
		}
		current = child
	}

	store.nodes[current].payload = rule.Payload()
	if prune {
		store.sweep(current, rule)
	}
	return true
}

//InsertAll inserts the rules in order and returns how many were written.
func (store *RuleStore) InsertAll(rules []Rule, prune bool) int {
	written := 0
	for _, rule := range rules {
		if store.Insert(rule, prune) {
			written++
		}
	}
	return written
}

//invalidatedBy reports whether a rule written above a payload makes it redundant.
//The payload lies deeper, so it is longer than the rule.
func invalidatedBy(payload *RulePayload, rule Rule) bool {
	if payload.Confidence != rule.Confidence {
		return payload.Confidence < rule.Confidence
	}
	return payload.Support <= rule.Support
}

//sweep walks the subtree under top and invalidates the payloads the rule at top dominates.
//Leaves are detached, inner nodes just lose their payload.
func (store *RuleStore) sweep(top int, rule Rule) {
	stack := append([]int(nil), store.nodes[top].children...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &store.nodes[id]
		if node.detached {
			continue
		}
		stack = append(stack, node.children...)
		if node.payload == nil || !invalidatedBy(node.payload, rule) {
			continue
		}
		if len(node.children) == 0 {
			store.detach(id)
		} else {
			node.payload = nil
		}
	}
}

//detach removes a leaf and then every ancestor left without payload and children.
func (store *RuleStore) detach(id int) {
	for id != 0 {
		parent := store.nodes[id].parent
		store.removeChild(parent, id)
		store.nodes[id].detached = true

		p := store.nodes[parent]
		if parent == 0 || p.payload != nil || len(p.children) > 0 {
			return
		}
		id = parent
	}
}

func (store *RuleStore) removeChild(parent, child int) {
	node := &store.nodes[parent]
	delete(node.childIndex, store.nodes[child].attr)
	for ind, id := range node.children {
		if id == child {
			node.children = append(node.children[:ind], node.children[ind+1:]...)
			break
		}
	}
}

type storeFrame struct {
	id, depth int
}

//Rules extracts every rule of the store in depth-first order.
func (store *RuleStore) Rules() []Rule {
	var rules []Rule
	store.walk(func(path []Attribute, payload *RulePayload) {
		rules = append(rules, Rule{
			Conditions:   append([]Attribute(nil), path...),
			Label:        payload.Label,
			Support:      payload.Support,
			Confidence:   payload.Confidence,
			ChiSquare:    payload.ChiSquare,
			HasChiSquare: payload.HasChiSquare,
		})
	})
	return rules
}

//walk visits every payload with the conditions leading to it. Children are visited
//in insertion order. The path slice is reused between calls.
func (store *RuleStore) walk(visit func(path []Attribute, payload *RulePayload)) {
	path := make([]Attribute, 0)
	stack := store.pushChildren(nil, 0, 0)
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := store.nodes[frame.id]
		path = append(path[:frame.depth], node.attr)
		if node.payload != nil {
			visit(path, node.payload)
		}
		stack = store.pushChildren(stack, frame.id, frame.depth+1)
	}
}

//pushChildren pushes the children in reverse so that the first child is popped first.
func (store *RuleStore) pushChildren(stack []storeFrame, id, depth int) []storeFrame {
	children := store.nodes[id].children
	for ind := len(children) - 1; ind >= 0; ind-- {
		stack = append(stack, storeFrame{id: children[ind], depth: depth})
	}
	return stack
}

//Len returns the number of rules in the store.
func (store *RuleStore) Len() int {
	count := 0
	store.walk(func([]Attribute, *RulePayload) { count++ })
	return count
}

//NodeCount returns the number of attached nodes without the root.
func (store *RuleStore) NodeCount() int {
	count := 0
	for id := 1; id < len(store.nodes); id++ {
		if !store.nodes[id].detached {
			count++
		}
	}
	return count
}

//AttributeNodes returns the attached nodes testing attr, following its header chain.
func (store *RuleStore) AttributeNodes(attr Attribute) int {
	ends, ok := store.header[attr]
	if !ok {
		return 0
	}
	count := 0
	for id := ends.head; id != noNode; id = store.nodes[id].next {
		if !store.nodes[id].detached {
			count++
		}
	}
	return count
}

//Validate checks the structure of the store: no attached node is left without both
//payload and children, and no payload is dominated by a payload above it.
func (store *RuleStore) Validate() error {
	for id := 1; id < len(store.nodes); id++ {
		node := store.nodes[id]
		if node.detached {
			continue
		}
		if node.payload == nil && len(node.children) == 0 {
			return errors.Errorf("node %d (%v) has neither payload nor children", id, node.attr)
		}
		if node.payload == nil {
			continue
		}
		for up := node.parent; up > 0; up = store.nodes[up].parent {
			above := store.nodes[up].payload
			if above == nil {
				continue
			}
			if above.Confidence > node.payload.Confidence ||
				(above.Confidence == node.payload.Confidence && above.Support >= node.payload.Support) {
				return errors.Errorf("rule at node %d (%v) is dominated by node %d", id, node.attr, up)
			}
		}
	}
	return nil
}
