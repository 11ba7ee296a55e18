package genetics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/math"
	"github.com/yaricom/goNEATMaze/neat/network"
)

// the options for a tiny two-input, two-output test topology
func testOptions() *neat.Options {
	return &neat.Options{
		PopSize:                 20,
		CompatThreshold:         3.0,
		ExcessCoeff:             1.0,
		DisjointCoeff:           1.0,
		WeightCoeff:             0.9,
		MaxStagnation:           5,
		WeightMutateRate:        0.6,
		WeightReplaceRate:       0.1,
		WeightMutatePower:       0.5,
		WeightCap:               8.0,
		WeightInitRange:         1.0,
		AddConnectionRate:       0.2,
		AddNodeRate:             0.1,
		CrossoverRate:           0.75,
		InheritDisabledGeneRate: 0.75,
		Elitism:                 1,
		SelectionPercentage:     0.3,
		InitialConnections:      6,
		NumInputs:               2,
		NumOutputs:              2,
		NumProcesses:            2,
		Seed:                    42,
	}
}

// buildTestGenome Creates the fixed initial genome: inputs 0 and 1, outputs 2
// and 3 with zero bias, bias node 4, six enabled connections under
// innovations 0..5 with the canonical test weights.
func buildTestGenome(t *testing.T, id int) *Genome {
	t.Helper()
	nodes := map[int]*NodeGene{
		0: NewNodeGene(0, network.InputNeuron, 0, math.LinearActivation),
		1: NewNodeGene(1, network.InputNeuron, 0, math.LinearActivation),
		2: NewNodeGene(2, network.OutputNeuron, 0, math.SigmoidSteepenedActivation),
		3: NewNodeGene(3, network.OutputNeuron, 0, math.SigmoidSteepenedActivation),
		4: NewNodeGene(4, network.BiasNeuron, 0, math.LinearActivation),
	}
	connections := map[int64]*ConnectionGene{
		0: NewConnectionGene(0, 2, 0.5, true, 0),
		1: NewConnectionGene(0, 3, -0.5, true, 1),
		2: NewConnectionGene(1, 2, 0.0, true, 2),
		3: NewConnectionGene(1, 3, 1.0, true, 3),
		4: NewConnectionGene(4, 2, 0.1, true, 4),
		5: NewConnectionGene(4, 3, -0.1, true, 5),
	}
	genome := NewGenomeFromGenes(id, nodes, connections)
	require.NoError(t, genome.Verify())
	return genome
}

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
