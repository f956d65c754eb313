package crl

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

//GraphFormats maps figure types to graphviz formats.
var GraphFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
	"dot": graphviz.XDOT,
}

//graphDescription returns the label of a store node in a rendered graph.
func (node crNode) graphDescription(meta Metadata) string {
	var sb strings.Builder
	sb.WriteString(meta.DescribeAttribute(node.attr))
	if node.payload != nil {
		sb.WriteString(fmt.Sprintf("\n-> %s", node.payload.Label))
		sb.WriteString(fmt.Sprintf("\nsup: %d", node.payload.Support))
		sb.WriteString(fmt.Sprintf("\nconf: %6.4f", node.payload.Confidence))
		sb.WriteString(fmt.Sprintf("\nchi2: %6.4f", node.payload.ChiSquare))
	}
	return sb.String()
}

//DrawGraph builds a graphviz graph of the store. Nodes carrying a rule are boxes.
//The caller releases both returned values with releaseGraph, on error they are
//already released.
func (store *RuleStore) DrawGraph(meta Metadata) (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		_ = releaseGraph(graphViz, nil)
		return nil, nil, errors.Wrap(err, "new graph")
	}
	if err := store.drawNodes(graph, meta); err != nil {
		_ = releaseGraph(graphViz, graph)
		return nil, nil, err
	}
	return graphViz, graph, nil
}

func (store *RuleStore) drawNodes(graph *cgraph.Graph, meta Metadata) error {
	root, err := graph.CreateNode("root")
	if err != nil {
		return errors.Wrap(err, "root node")
	}
	root.Set("shape", "point")

	drawn := map[int]*cgraph.Node{0: root}
	stack := store.pushChildren(nil, 0, 0)
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := store.nodes[frame.id]
		current, err := graph.CreateNode(fmt.Sprint(frame.id))
		if err != nil {
			return errors.Wrapf(err, "node %d", frame.id)
		}
		current.Set("label", node.graphDescription(meta))
		if node.payload != nil {
			current.Set("shape", "box")
		}
		if _, err := graph.CreateEdge("", drawn[node.parent], current); err != nil {
			return errors.Wrapf(err, "edge to %d", frame.id)
		}
		drawn[frame.id] = current
		stack = store.pushChildren(stack, frame.id, frame.depth+1)
	}
	return nil
}

//releaseGraph closes the graph, when there is one, and then its graphviz context.
func releaseGraph(graphViz *graphviz.Graphviz, graph *cgraph.Graph) error {
	var err error
	if graph != nil {
		err = graph.Close()
	}
	if graphViz != nil {
		if closeErr := graphViz.Close(); err == nil {
			err = closeErr
		}
	}
	return errors.Wrap(err, "release graph")
}

//RenderRules renders the store into fileName in one of GraphFormats.
func (store *RuleStore) RenderRules(fileName, figureType string, meta Metadata) error {
	format, ok := GraphFormats[figureType]
	if !ok {
		return errors.Errorf("unsupported figure type %q", figureType)
	}
	graphViz, graph, err := store.DrawGraph(meta)
	if err != nil {
		return err
	}
	defer func() { _ = releaseGraph(graphViz, graph) }()
	return errors.Wrap(graphViz.RenderFilename(graph, format, fileName), "render graph")
}
