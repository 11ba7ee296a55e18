// Package network provides the phenotype side of NEAT: the executable
// feed-forward neural network assembled from a genome.
package network

import (
	"github.com/pkg/errors"
)

// NodeNeuronType defines the type of the node: input, bias, hidden or output
type NodeNeuronType byte

const (
	// InputNeuron The node is in input position of the network
	InputNeuron NodeNeuronType = iota
	// BiasNeuron The node is a bias with output fixed to 1
	BiasNeuron
	// HiddenNeuron The node is in hidden position of the network
	HiddenNeuron
	// OutputNeuron The node is in output position of the network
	OutputNeuron
)

// NeuronTypeName Returns the name of the neuron type
func NeuronTypeName(nType NodeNeuronType) string {
	switch nType {
	case InputNeuron:
		return "INPT"
	case BiasNeuron:
		return "BIAS"
	case HiddenNeuron:
		return "HIDN"
	case OutputNeuron:
		return "OUTP"
	}
	return "UNKNOWN NEURON TYPE"
}

// NeuronTypeByName Returns neuron type from its name
func NeuronTypeByName(name string) (NodeNeuronType, error) {
	switch name {
	case "INPT":
		return InputNeuron, nil
	case "BIAS":
		return BiasNeuron, nil
	case "HIDN":
		return HiddenNeuron, nil
	case "OUTP":
		return OutputNeuron, nil
	}
	return 0, errors.Errorf("unknown neuron type name: %s", name)
}

// IsSensor Returns true for the node types seeded with external values rather than computed
func IsSensor(nType NodeNeuronType) bool {
	return nType == InputNeuron || nType == BiasNeuron
}
