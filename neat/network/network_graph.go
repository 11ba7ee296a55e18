package network

import (
	"fmt"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"

	"github.com/yaricom/goNEATMaze/neat/math"
)

// The Gonum graph.Node specific
//

// ID is to get ID of the node. Implements graph.Node ID method.
func (n *NNode) ID() int64 {
	return int64(n.Id)
}

// Attributes returns list of standard attributes associated with the graph node
func (n *NNode) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{
		Key:   "neuron_type",
		Value: NeuronTypeName(n.NeuronType),
	}, {
		Key:   "bias",
		Value: fmt.Sprintf("%v", n.Bias),
	}}
	if activation, err := math.NodeActivators.ActivationNameFromType(n.ActivationType); err == nil {
		attrs = append(attrs, encoding.Attribute{
			Key:   "activation_type",
			Value: activation,
		})
	}
	return attrs
}

// The Gonum graph.Edge specific
//

// From returns the from node of the edge. Implements graph.Edge From method.
func (l *Link) From() graph.Node {
	return l.InNode
}

// To returns the to node of the edge. Implements graph.Edge To method.
func (l *Link) To() graph.Node {
	return l.OutNode
}

// ReversedEdge returns a new Edge with the end points of the pair swapped
func (l *Link) ReversedEdge() graph.Edge {
	return NewLink(l.ConnectionWeight, l.OutNode, l.InNode)
}

// Weight returns the weight of the edge. Implements graph.WeightedEdge Weight method.
func (l *Link) Weight() float64 {
	return l.ConnectionWeight
}

// Attributes returns list of standard attributes associated with the graph edge
func (l *Link) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{
		Key:   "weight",
		Value: fmt.Sprintf("%v", l.ConnectionWeight),
	}}
}

// The Gonum graph.Graph
//

// Node returns the node with the given ID if it exists in the graph, and nil otherwise.
func (n *Network) Node(id int64) graph.Node {
	if node := n.nodeWithID(id); node != nil {
		return node
	}
	return nil
}

// Nodes returns all the nodes in the graph.
//
// Nodes must not return nil.
func (n *Network) Nodes() graph.Nodes {
	return newNodesIterator(n.all)
}

// From returns all nodes that can be reached directly from the node with the given ID.
//
// From must not return nil.
func (n *Network) From(id int64) graph.Nodes {
	node := n.nodeWithID(id)
	if node == nil {
		return graph.Empty
	}
	nodes := make([]*NNode, 0, len(node.Outgoing))
	for _, l := range node.Outgoing {
		nodes = append(nodes, l.OutNode)
	}
	return newNodesIterator(nodes)
}

// HasEdgeBetween returns whether an edge exists between nodes with IDs xid
// and yid without considering direction.
func (n *Network) HasEdgeBetween(xid, yid int64) bool {
	return n.edgeBetween(xid, yid, false) != nil
}

// Edge returns the edge from u to v, with IDs uid and vid, if such an edge
// exists and nil otherwise.
func (n *Network) Edge(uid, vid int64) graph.Edge {
	if edge := n.edgeBetween(uid, vid, true); edge != nil {
		return edge
	}
	return nil
}

// The Gonum graph.Directed
//

// HasEdgeFromTo returns whether an edge exists in the graph from u to v with
// IDs uid and vid.
func (n *Network) HasEdgeFromTo(uid, vid int64) bool {
	return n.edgeBetween(uid, vid, true) != nil
}

// To returns all nodes that can reach directly to the node with the given ID.
//
// To must not return nil.
func (n *Network) To(id int64) graph.Nodes {
	node := n.nodeWithID(id)
	if node == nil {
		return graph.Empty
	}
	nodes := make([]*NNode, 0, len(node.Incoming))
	for _, l := range node.Incoming {
		nodes = append(nodes, l.InNode)
	}
	return newNodesIterator(nodes)
}

func (n *Network) edgeBetween(uid, vid int64, directed bool) *Link {
	node := n.nodeWithID(uid)
	if node == nil {
		return nil
	}
	for _, l := range node.Outgoing {
		if l.OutNode.ID() == vid {
			return l
		}
	}
	if directed {
		return nil
	}
	for _, l := range node.Incoming {
		if l.InNode.ID() == vid {
			return l
		}
	}
	return nil
}

// the graph.Nodes iterator over a slice of network nodes
type nodesIterator struct {
	nodes []*NNode
	pos   int
}

func newNodesIterator(nodes []*NNode) *nodesIterator {
	return &nodesIterator{nodes: nodes, pos: -1}
}

func (it *nodesIterator) Next() bool {
	it.pos++
	return it.pos < len(it.nodes)
}

func (it *nodesIterator) Len() int {
	return len(it.nodes) - (it.pos + 1)
}

func (it *nodesIterator) Reset() {
	it.pos = -1
}

func (it *nodesIterator) Node() graph.Node {
	if it.pos >= 0 && it.pos < len(it.nodes) {
		return it.nodes[it.pos]
	}
	return nil
}
