package genetics

import (
	"fmt"

	"github.com/yaricom/goNEATMaze/neat/math"
	"github.com/yaricom/goNEATMaze/neat/network"
)

// NodeGene specifies a neuron of the genome: its stable identifier, its role
// in the network, its bias and the activation function tag. Input and bias
// nodes carry no bias and activate linearly.
type NodeGene struct {
	// Id the node unique identifier assigned by the innovation tracker
	Id int
	// NeuronType the role of the node: input, bias, hidden or output
	NeuronType network.NodeNeuronType
	// Bias the node bias. Always zero for input and bias nodes.
	Bias float64
	// ActivationType the activation function of the node
	ActivationType math.NodeActivationType
}

// NewNodeGene Creates new node gene with specified role. Sensors are forced
// to linear activation with zero bias.
func NewNodeGene(id int, neuronType network.NodeNeuronType, bias float64, activationType math.NodeActivationType) *NodeGene {
	if network.IsSensor(neuronType) {
		bias = 0
		activationType = math.LinearActivation
	}
	return &NodeGene{
		Id:             id,
		NeuronType:     neuronType,
		Bias:           bias,
		ActivationType: activationType,
	}
}

// NewNodeGeneCopy Constructs a node gene off of another gene as a duplicate
func NewNodeGeneCopy(n *NodeGene) *NodeGene {
	return &NodeGene{
		Id:             n.Id,
		NeuronType:     n.NeuronType,
		Bias:           n.Bias,
		ActivationType: n.ActivationType,
	}
}

func (n *NodeGene) String() string {
	return fmt.Sprintf("[NodeGene %s id:%03d bias: %.3f]",
		network.NeuronTypeName(n.NeuronType), n.Id, n.Bias)
}

// ConnectionGene specifies a link between two nodes along with the innovation
// number which tells when in the history of the run the gene first arose. The
// historical markers allow matching of genes during crossover and speciation.
type ConnectionGene struct {
	// InNodeId the id of the source node
	InNodeId int
	// OutNodeId the id of the destination node
	OutNodeId int
	// Weight the connection weight
	Weight float64
	// Enabled when false the gene is carried by the genome but not expressed in the phenotype
	Enabled bool
	// InnovationNum the historical marker of this gene
	InnovationNum int64
}

// NewConnectionGene Creates new connection gene
func NewConnectionGene(inNodeId, outNodeId int, weight float64, enabled bool, innovationNum int64) *ConnectionGene {
	return &ConnectionGene{
		InNodeId:      inNodeId,
		OutNodeId:     outNodeId,
		Weight:        weight,
		Enabled:       enabled,
		InnovationNum: innovationNum,
	}
}

// NewConnectionGeneCopy Constructs a connection gene off of another gene as a duplicate
func NewConnectionGeneCopy(g *ConnectionGene) *ConnectionGene {
	return &ConnectionGene{
		InNodeId:      g.InNodeId,
		OutNodeId:     g.OutNodeId,
		Weight:        g.Weight,
		Enabled:       g.Enabled,
		InnovationNum: g.InnovationNum,
	}
}

func (g *ConnectionGene) String() string {
	enabledStr := ""
	if !g.Enabled {
		enabledStr = " -DISABLED-"
	}
	return fmt.Sprintf("[Link (%4d ->%4d) INNOV (%4d) Weight: %.3f%s]",
		g.InNodeId, g.OutNodeId, g.InnovationNum, g.Weight, enabledStr)
}
