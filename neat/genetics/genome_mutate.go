package genetics

import (
	"math/rand"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/math"
	"github.com/yaricom/goNEATMaze/neat/network"
)

/* ******* MUTATORS ******* */

// the number of tries the add-connection mutator makes to find an open pair of nodes
const newConnectionTries = 20

// mutateWeights Mutates the connection weights and the biases of the neuron
// nodes. Every gene is visited; the mutated value is either replaced by a
// fresh uniform draw or perturbed by a Gaussian, and always clamped to the
// configured weight cap. The iteration follows sorted gene order to keep the
// consumed random sequence deterministic.
func (g *Genome) mutateWeights(opts *neat.Options, rng *rand.Rand) {
	mutateValue := func(value float64) float64 {
		if rng.Float64() < opts.WeightReplaceRate {
			return (rng.Float64()*2 - 1) * opts.WeightCap
		}
		value += rng.NormFloat64() * opts.WeightMutatePower
		if value > opts.WeightCap {
			value = opts.WeightCap
		} else if value < -opts.WeightCap {
			value = -opts.WeightCap
		}
		return value
	}

	for _, innovation := range g.ConnectionInnovations() {
		if rng.Float64() < opts.WeightMutateRate {
			conn := g.Connections[innovation]
			conn.Weight = mutateValue(conn.Weight)
		}
	}
	for _, id := range g.NodeIds() {
		node := g.Nodes[id]
		if node.NeuronType != network.HiddenNeuron && node.NeuronType != network.OutputNeuron {
			continue
		}
		if rng.Float64() < opts.WeightMutateRate {
			node.Bias = mutateValue(node.Bias)
		}
	}
}

// mutateAddConnection Mutates the genome by adding a new connection between
// two nodes which are not connected yet. The source is drawn from the
// non-output nodes and the destination from the non-sensor nodes. A pair is
// rejected when it is a self loop, when the connection already exists in
// either direction - the reverse check is the feed-forward heuristic of the
// add-connection operator. Exhausting all tries is an ordinary no-op result.
func (g *Genome) mutateAddConnection(tracker *InnovationTracker, opts *neat.Options, rng *rand.Rand) bool {
	sources := make([]int, 0, len(g.Nodes))
	destinations := make([]int, 0, len(g.Nodes))
	for _, id := range g.NodeIds() {
		node := g.Nodes[id]
		if node.NeuronType != network.OutputNeuron {
			sources = append(sources, id)
		}
		if !network.IsSensor(node.NeuronType) {
			destinations = append(destinations, id)
		}
	}
	if len(sources) == 0 || len(destinations) == 0 {
		return false
	}

	for try := 0; try < newConnectionTries; try++ {
		inNodeId := sources[rng.Intn(len(sources))]
		outNodeId := destinations[rng.Intn(len(destinations))]
		if inNodeId == outNodeId {
			continue
		}
		if g.hasConnection(inNodeId, outNodeId) || g.hasConnection(outNodeId, inNodeId) {
			continue
		}

		weight := (rng.Float64()*2 - 1) * opts.WeightInitRange
		innovation := tracker.ConnectionInnovation(inNodeId, outNodeId)
		g.Connections[innovation] = NewConnectionGene(inNodeId, outNodeId, weight, true, innovation)
		return true
	}
	return false
}

// mutateAddNode Mutates the genome by splitting a random enabled connection
// with a new hidden node. The split connection is disabled, the inbound
// replacement carries weight 1.0 and the outbound replacement the old weight,
// which preserves the immediate input-output behaviour of the network. The
// identities of the new genes come from the tracker, so an identical split
// elsewhere in the population this generation yields matching genes.
func (g *Genome) mutateAddNode(tracker *InnovationTracker, rng *rand.Rand) bool {
	enabled := make([]int64, 0, len(g.Connections))
	for _, innovation := range g.ConnectionInnovations() {
		if g.Connections[innovation].Enabled {
			enabled = append(enabled, innovation)
		}
	}
	if len(enabled) == 0 {
		return false
	}

	conn := g.Connections[enabled[rng.Intn(len(enabled))]]
	conn.Enabled = false

	nodeId, inboundInnovation, outboundInnovation := tracker.RegisterNodeSplit(
		conn.InnovationNum, conn.InNodeId, conn.OutNodeId)

	if _, ok := g.Nodes[nodeId]; !ok {
		g.Nodes[nodeId] = NewNodeGene(nodeId, network.HiddenNeuron, 0, math.SigmoidSteepenedActivation)
	}
	g.Connections[inboundInnovation] = NewConnectionGene(conn.InNodeId, nodeId, 1.0, true, inboundInnovation)
	g.Connections[outboundInnovation] = NewConnectionGene(nodeId, conn.OutNodeId, conn.Weight, true, outboundInnovation)
	return true
}
