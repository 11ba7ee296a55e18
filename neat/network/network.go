package network

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/math"
	"sort"
)

// Network is a collection of all nodes within the phenotype along their links.
// The network activation is a single feed-forward pass over the topologically
// ordered enabled subgraph of the genome it was built from.
type Network struct {
	// Id the network identifier, usually matching the genome id
	Id int
	// Name the optional network name used by graph serialization
	Name string

	// the input nodes in ascending id order
	inputs []*NNode
	// the output nodes in ascending id order
	outputs []*NNode
	// all network nodes in ascending id order
	all []*NNode
	// the node lookup by id
	byId map[int]*NNode
}

// NewNetwork Creates a new network from the provided nodes. The nodes must
// already be wired with their incoming and outgoing links.
func NewNetwork(nodes []*NNode, netId int) (*Network, error) {
	n := &Network{
		Id:   netId,
		all:  make([]*NNode, len(nodes)),
		byId: make(map[int]*NNode, len(nodes)),
	}
	copy(n.all, nodes)
	sort.Slice(n.all, func(i, j int) bool {
		return n.all[i].Id < n.all[j].Id
	})
	for _, node := range n.all {
		if _, ok := n.byId[node.Id]; ok {
			return nil, errors.Errorf("duplicate node id in network: %d", node.Id)
		}
		n.byId[node.Id] = node
		switch node.NeuronType {
		case InputNeuron:
			n.inputs = append(n.inputs, node)
		case OutputNeuron:
			n.outputs = append(n.outputs, node)
		}
		// stable link order: the topological walk and the floating point
		// accumulation of incoming signals stay reproducible between runs
		sort.Slice(node.Outgoing, func(i, j int) bool {
			return node.Outgoing[i].OutNode.Id < node.Outgoing[j].OutNode.Id
		})
		sort.Slice(node.Incoming, func(i, j int) bool {
			return node.Incoming[i].InNode.Id < node.Incoming[j].InNode.Id
		})
	}
	if len(n.outputs) == 0 {
		return nil, errors.New("network without OUTPUTS; the result can be unpredictable")
	}
	return n, nil
}

// Activate Computes the output vector of the network for the provided input
// vector in one forward pass. The inputs vector length must match the number
// of input nodes. Output nodes unreachable from the seeded nodes report 0.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(n.inputs) {
		return nil, errors.Errorf("the number of inputs [%d] does not match the number of input nodes [%d]",
			len(inputs), len(n.inputs))
	}

	// seed sensors, reset the rest
	for _, node := range n.all {
		if node.NeuronType == BiasNeuron {
			node.output = 1.0
		} else {
			node.output = 0.0
		}
	}
	for i, node := range n.inputs {
		node.output = inputs[i]
	}

	order, visited := n.topologicalOrder()

	// warn about the part of the graph Kahn's walk could not reach (a cycle
	// through hidden nodes); unreachable outputs stay at 0
	toActivate := 0
	for _, node := range n.all {
		if !node.IsSensor() {
			toActivate++
		}
	}
	activated := 0
	for _, node := range order {
		if !node.IsSensor() {
			activated++
		}
	}
	if activated != toActivate {
		neat.WarnLog(fmt.Sprintf(
			"NETWORK: topological walk of network [%d] visited %d of %d neuron nodes, unreachable outputs report 0",
			n.Id, activated, toActivate))
	}

	for _, node := range order {
		if node.IsSensor() {
			continue
		}
		sum := node.Bias
		for _, link := range node.Incoming {
			sum += link.InNode.output * link.ConnectionWeight
		}
		out, err := math.NodeActivators.ActivateByType(sum, node.ActivationType)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to activate node %d", node.Id)
		}
		node.output = out
	}

	outputs := make([]float64, len(n.outputs))
	for i, node := range n.outputs {
		if visited[node.Id] {
			outputs[i] = node.output
		}
	}
	return outputs, nil
}

// topologicalOrder Runs Kahn's algorithm over the network graph. The returned
// order is deterministic: the initial queue and every neighbor expansion
// follow ascending node ids.
func (n *Network) topologicalOrder() ([]*NNode, map[int]bool) {
	inDegree := make(map[int]int, len(n.all))
	for _, node := range n.all {
		inDegree[node.Id] = len(node.Incoming)
	}

	// n.all is sorted by id, so the seed queue is already in stable order
	queue := make([]*NNode, 0, len(n.all))
	for _, node := range n.all {
		if inDegree[node.Id] == 0 {
			queue = append(queue, node)
		}
	}

	order := make([]*NNode, 0, len(n.all))
	visited := make(map[int]bool, len(n.all))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		visited[node.Id] = true
		for _, link := range node.Outgoing {
			next := link.OutNode.Id
			if inDegree[next]--; inDegree[next] == 0 {
				queue = append(queue, link.OutNode)
			}
		}
	}
	return order, visited
}

// ReadOutputs Returns the output values computed by the most recent activation in ascending node id order
func (n *Network) ReadOutputs() []float64 {
	outs := make([]float64, len(n.outputs))
	for i, node := range n.outputs {
		outs[i] = node.output
	}
	return outs
}

// NodeCount Returns the number of nodes in the network
func (n *Network) NodeCount() int {
	return len(n.all)
}

// LinkCount Returns the number of links in the network
func (n *Network) LinkCount() int {
	total := 0
	for _, node := range n.all {
		total += len(node.Incoming)
	}
	return total
}

// Complexity Returns the complexity of the network as a sum of node and link counts
func (n *Network) Complexity() int {
	return n.NodeCount() + n.LinkCount()
}

func (n *Network) nodeWithID(id int64) *NNode {
	if node, ok := n.byId[int(id)]; ok {
		return node
	}
	return nil
}
