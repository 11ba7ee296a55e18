package genetics

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/math"
	"github.com/yaricom/goNEATMaze/neat/network"
)

// Genome is the primary source of genotype information used to create a
// phenotype. It is a directed graph described by two gene maps:
//
//  1. the node genes addressed by node id
//  2. the connection genes addressed by innovation number
//
// Each connection gene has a historical marker telling when it arose. Thus
// the genes can be used to speciate the population, and the list of genes
// provides an evolutionary history of innovation and link-building.
type Genome struct {
	// Id the genome identifier assigned by the population
	Id int
	// Nodes the node genes by node id
	Nodes map[int]*NodeGene
	// Connections the connection genes by innovation number
	Connections map[int64]*ConnectionGene

	// Fitness the raw fitness measured by the evaluator
	Fitness float64
	// AdjustedFitness the fitness after sharing within the species
	AdjustedFitness float64
	// SpeciesId the id of the species this genome belongs to, or zero before speciation
	SpeciesId int

	// the cached node id lists in ascending order
	inputNodeIds  []int
	outputNodeIds []int
	// the bias node id or -1 when the genome carries no bias node
	biasNodeId int
}

// NewGenome Creates the initial genome for the run: the configured number of
// input nodes, one bias node, the configured number of output nodes, and a
// random selection of enabled connections from {inputs, bias} x outputs with
// innovations assigned by the tracker.
func NewGenome(id int, opts *neat.Options, tracker *InnovationTracker, rng *rand.Rand) *Genome {
	g := &Genome{
		Id:          id,
		Nodes:       make(map[int]*NodeGene),
		Connections: make(map[int64]*ConnectionGene),
		biasNodeId:  -1,
	}

	nodeId := 0
	for i := 0; i < opts.NumInputs; i++ {
		g.Nodes[nodeId] = NewNodeGene(nodeId, network.InputNeuron, 0, math.LinearActivation)
		g.inputNodeIds = append(g.inputNodeIds, nodeId)
		nodeId++
	}
	g.biasNodeId = nodeId
	g.Nodes[nodeId] = NewNodeGene(nodeId, network.BiasNeuron, 0, math.LinearActivation)
	nodeId++
	for i := 0; i < opts.NumOutputs; i++ {
		bias := rng.Float64()*2 - 1
		g.Nodes[nodeId] = NewNodeGene(nodeId, network.OutputNeuron, bias, math.SigmoidSteepenedActivation)
		g.outputNodeIds = append(g.outputNodeIds, nodeId)
		nodeId++
	}

	// wire a random subset of the possible sensor -> output pairs
	sources := append(append([]int{}, g.inputNodeIds...), g.biasNodeId)
	pairs := make([]connectionKey, 0, len(sources)*len(g.outputNodeIds))
	for _, src := range sources {
		for _, dst := range g.outputNodeIds {
			pairs = append(pairs, connectionKey{inNodeId: src, outNodeId: dst})
		}
	}
	count := opts.InitialConnections
	if count > len(pairs) {
		count = len(pairs)
	}
	for _, idx := range rng.Perm(len(pairs))[:count] {
		pair := pairs[idx]
		weight := (rng.Float64()*2 - 1) * opts.WeightInitRange
		innovation := tracker.ConnectionInnovation(pair.inNodeId, pair.outNodeId)
		g.Connections[innovation] = NewConnectionGene(pair.inNodeId, pair.outNodeId, weight, true, innovation)
	}
	return g
}

// NewGenomeFromGenes Assembles a genome from already built gene maps. The
// cached sensor and output id lists are derived from the node roles.
func NewGenomeFromGenes(id int, nodes map[int]*NodeGene, connections map[int64]*ConnectionGene) *Genome {
	g := &Genome{
		Id:          id,
		Nodes:       nodes,
		Connections: connections,
		biasNodeId:  -1,
	}
	g.rebuildNodeCaches()
	return g
}

func (g *Genome) rebuildNodeCaches() {
	g.inputNodeIds = g.inputNodeIds[:0]
	g.outputNodeIds = g.outputNodeIds[:0]
	g.biasNodeId = -1
	for id, node := range g.Nodes {
		switch node.NeuronType {
		case network.InputNeuron:
			g.inputNodeIds = append(g.inputNodeIds, id)
		case network.OutputNeuron:
			g.outputNodeIds = append(g.outputNodeIds, id)
		case network.BiasNeuron:
			g.biasNodeId = id
		}
	}
	sort.Ints(g.inputNodeIds)
	sort.Ints(g.outputNodeIds)
}

// Duplicate this Genome to create a new one with the specified id
func (g *Genome) Duplicate(newId int) *Genome {
	nodes := make(map[int]*NodeGene, len(g.Nodes))
	for id, node := range g.Nodes {
		nodes[id] = NewNodeGeneCopy(node)
	}
	connections := make(map[int64]*ConnectionGene, len(g.Connections))
	for innovation, conn := range g.Connections {
		connections[innovation] = NewConnectionGeneCopy(conn)
	}
	dup := NewGenomeFromGenes(newId, nodes, connections)
	dup.Fitness = g.Fitness
	dup.AdjustedFitness = g.AdjustedFitness
	dup.SpeciesId = g.SpeciesId
	return dup
}

// InputNodeIds Returns the cached input node ids in ascending order
func (g *Genome) InputNodeIds() []int {
	return g.inputNodeIds
}

// OutputNodeIds Returns the cached output node ids in ascending order
func (g *Genome) OutputNodeIds() []int {
	return g.outputNodeIds
}

// BiasNodeId Returns the id of the bias node or false when the genome has none
func (g *Genome) BiasNodeId() (int, bool) {
	return g.biasNodeId, g.biasNodeId >= 0
}

// NodeIds Returns sorted ids of all node genes
func (g *Genome) NodeIds() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ConnectionInnovations Returns sorted innovation numbers of all connection genes
func (g *Genome) ConnectionInnovations() []int64 {
	innovations := make([]int64, 0, len(g.Connections))
	for innovation := range g.Connections {
		innovations = append(innovations, innovation)
	}
	sort.Slice(innovations, func(i, j int) bool { return innovations[i] < innovations[j] })
	return innovations
}

// maxInnovation Returns the greatest innovation number present or -1 for an empty genome
func (g *Genome) maxInnovation() int64 {
	max := int64(-1)
	for innovation := range g.Connections {
		if innovation > max {
			max = innovation
		}
	}
	return max
}

// hasConnection Returns true when a connection between given endpoints exists, enabled or not
func (g *Genome) hasConnection(inNodeId, outNodeId int) bool {
	for _, conn := range g.Connections {
		if conn.InNodeId == inNodeId && conn.OutNodeId == outNodeId {
			return true
		}
	}
	return false
}

// Extrons Returns the number of enabled connection genes
func (g *Genome) Extrons() int {
	total := 0
	for _, conn := range g.Connections {
		if conn.Enabled {
			total++
		}
	}
	return total
}

// Complexity Returns the complexity of the genome as a sum of node and connection gene counts
func (g *Genome) Complexity() int {
	return len(g.Nodes) + len(g.Connections)
}

// Genesis generates a Network phenotype from this Genome with specified id.
// The network contains only the enabled subgraph: the sensors, the outputs,
// and every node appearing as an endpoint of an enabled connection.
func (g *Genome) Genesis(netId int) (*network.Network, error) {
	if len(g.Connections) == 0 {
		return nil, errors.New("network built without GENES; the result can be unpredictable")
	}

	include := make(map[int]bool, len(g.Nodes))
	for id, node := range g.Nodes {
		if node.NeuronType != network.HiddenNeuron {
			include[id] = true
		}
	}
	for _, conn := range g.Connections {
		if conn.Enabled {
			include[conn.InNodeId] = true
			include[conn.OutNodeId] = true
		}
	}

	phenoNodes := make(map[int]*network.NNode, len(include))
	allNodes := make([]*network.NNode, 0, len(include))
	for id := range include {
		node, ok := g.Nodes[id]
		if !ok {
			return nil, errors.Errorf("connection endpoint references unknown node: %d", id)
		}
		phenoNode := network.NewNNode(node.Id, node.NeuronType, node.Bias, node.ActivationType)
		phenoNodes[id] = phenoNode
		allNodes = append(allNodes, phenoNode)
	}

	for _, conn := range g.Connections {
		if !conn.Enabled {
			continue
		}
		inNode := phenoNodes[conn.InNodeId]
		outNode := phenoNodes[conn.OutNodeId]
		link := network.NewLink(conn.Weight, inNode, outNode)
		outNode.Incoming = append(outNode.Incoming, link)
		inNode.Outgoing = append(inNode.Outgoing, link)
	}

	return network.NewNetwork(allNodes, netId)
}

// Verify runs the structural integrity checks over the genome. A violation
// signals a programmer bug in one of the variation operators and must abort
// the run with the returned diagnostic.
func (g *Genome) Verify() error {
	seenPairs := make(map[connectionKey]int64, len(g.Connections))
	for innovation, conn := range g.Connections {
		if conn.InnovationNum != innovation {
			return errors.Errorf("connection registered under innovation %d carries innovation %d",
				innovation, conn.InnovationNum)
		}
		inNode, ok := g.Nodes[conn.InNodeId]
		if !ok {
			return errors.Errorf("missing source node %d of connection %s", conn.InNodeId, conn)
		}
		outNode, ok := g.Nodes[conn.OutNodeId]
		if !ok {
			return errors.Errorf("missing destination node %d of connection %s", conn.OutNodeId, conn)
		}
		key := connectionKey{inNodeId: conn.InNodeId, outNodeId: conn.OutNodeId}
		if other, dup := seenPairs[key]; dup {
			return errors.Errorf("duplicate connection pair (%d -> %d) under innovations %d and %d",
				conn.InNodeId, conn.OutNodeId, other, innovation)
		}
		seenPairs[key] = innovation
		if network.IsSensor(outNode.NeuronType) {
			return errors.Errorf("sensor node %d appears as connection destination: %s", outNode.Id, conn)
		}
		if inNode.NeuronType == network.OutputNeuron {
			return errors.Errorf("output node %d appears as connection source: %s", inNode.Id, conn)
		}
	}

	biasSeen := false
	inputs, outputs := 0, 0
	for id, node := range g.Nodes {
		if node.Id != id {
			return errors.Errorf("node registered under id %d carries id %d", id, node.Id)
		}
		switch node.NeuronType {
		case network.BiasNeuron:
			if biasSeen {
				return errors.New("more than one bias node in genome")
			}
			biasSeen = true
			if g.biasNodeId != id {
				return errors.Errorf("bias node %d is not cached as the genome bias", id)
			}
			if node.Bias != 0 || node.ActivationType != math.LinearActivation {
				return errors.Errorf("bias node %d must emit the constant 1", id)
			}
		case network.InputNeuron:
			inputs++
			if i := sort.SearchInts(g.inputNodeIds, id); i == len(g.inputNodeIds) || g.inputNodeIds[i] != id {
				return errors.Errorf("input node %d missing from the cached input list", id)
			}
		case network.OutputNeuron:
			outputs++
			if i := sort.SearchInts(g.outputNodeIds, id); i == len(g.outputNodeIds) || g.outputNodeIds[i] != id {
				return errors.Errorf("output node %d missing from the cached output list", id)
			}
		}
	}
	if inputs != len(g.inputNodeIds) {
		return errors.Errorf("cached input list size %d disagrees with %d input nodes", len(g.inputNodeIds), inputs)
	}
	if outputs != len(g.outputNodeIds) {
		return errors.Errorf("cached output list size %d disagrees with %d output nodes", len(g.outputNodeIds), outputs)
	}
	return nil
}

func (g *Genome) String() string {
	str := "GENOME START\nNodes:\n"
	for _, id := range g.NodeIds() {
		str += fmt.Sprintf("\t%s\n", g.Nodes[id])
	}
	str += "Genes:\n"
	for _, innovation := range g.ConnectionInnovations() {
		str += fmt.Sprintf("\t%s\n", g.Connections[innovation])
	}
	str += "GENOME END"
	return str
}
