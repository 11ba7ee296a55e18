package network

import "fmt"

// Link is a connection from one node to another with an associated weight.
type Link struct {
	// ConnectionWeight the weight of the connection
	ConnectionWeight float64
	// InNode the node inputting into the link
	InNode *NNode
	// OutNode the node the link affects
	OutNode *NNode
}

// NewLink Creates a new link with specified weight, input and output nodes
func NewLink(weight float64, inNode, outNode *NNode) *Link {
	return &Link{
		ConnectionWeight: weight,
		InNode:           inNode,
		OutNode:          outNode,
	}
}

func (l *Link) String() string {
	return fmt.Sprintf("[Link: (%s <-> %s), weight: %.3f]", l.InNode, l.OutNode, l.ConnectionWeight)
}
