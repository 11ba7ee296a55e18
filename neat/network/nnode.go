package network

import (
	"fmt"
	"github.com/yaricom/goNEATMaze/neat/math"
)

// NNode is either a NEURON or a SENSOR. If it's a sensor, it can be loaded with a value for output.
// If it's a neuron, it has a bias and an activation function applied to the weighted sum of its
// incoming links' signals.
type NNode struct {
	// Id the node unique identifier assigned by the innovation tracker
	Id int
	// NeuronType the position of the node in the network: input, bias, hidden or output
	NeuronType NodeNeuronType
	// Bias the node bias added to the weighted activation sum. Zero for sensors.
	Bias float64
	// ActivationType the activation function applied by this node
	ActivationType math.NodeActivationType

	// Incoming the links into this node
	Incoming []*Link
	// Outgoing the links out of this node
	Outgoing []*Link

	// the last computed activation value
	output float64
}

// NewNNode Creates a new node with specified id, neuron type, bias and activation function
func NewNNode(nodeId int, neuronType NodeNeuronType, bias float64, activationType math.NodeActivationType) *NNode {
	return &NNode{
		Id:             nodeId,
		NeuronType:     neuronType,
		Bias:           bias,
		ActivationType: activationType,
		Incoming:       make([]*Link, 0),
		Outgoing:       make([]*Link, 0),
	}
}

// IsSensor Returns true when this node is placed in the input or bias layer
func (n *NNode) IsSensor() bool {
	return IsSensor(n.NeuronType)
}

// Output Returns the activation value computed by the most recent network activation
func (n *NNode) Output() float64 {
	return n.output
}

func (n *NNode) String() string {
	activation, _ := math.NodeActivators.ActivationNameFromType(n.ActivationType)
	return fmt.Sprintf("(%s id:%03d, bias: %.3f, %s)",
		NeuronTypeName(n.NeuronType), n.Id, n.Bias, activation)
}
