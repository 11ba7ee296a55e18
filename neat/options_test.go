package neat

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func validOptions() *Options {
	return &Options{
		PopSize:                 50,
		CompatThreshold:         5.0,
		ExcessCoeff:             1.0,
		DisjointCoeff:           1.0,
		WeightCoeff:             0.9,
		MaxStagnation:           20,
		WeightMutateRate:        0.6,
		WeightReplaceRate:       0.1,
		WeightMutatePower:       0.5,
		WeightCap:               8.0,
		WeightInitRange:         1.0,
		AddConnectionRate:       0.19,
		AddNodeRate:             0.09,
		CrossoverRate:           0.75,
		InheritDisabledGeneRate: 0.75,
		Elitism:                 1,
		SelectionPercentage:     0.2,
		InitialConnections:      8,
		MazeWidth:               11,
		MazeHeight:              11,
		MaxStepsPerEvaluation:   400,
		NumRangefinders:         4,
		RangefinderMaxDist:      8.0,
		NumRadarSlices:          2,
		AgentMaxSpeed:           0.5,
		NumInputs:               9,
		NumOutputs:              4,
	}
}

func TestOptions_Validate(t *testing.T) {
	opts := validOptions()
	assert.NoError(t, opts.Validate())
}

func TestOptions_Validate_InvalidMazeDimensions(t *testing.T) {
	opts := validOptions()
	opts.MazeWidth = 10
	assert.Error(t, opts.Validate())

	opts = validOptions()
	opts.MazeHeight = 3
	assert.Error(t, opts.Validate())
}

func TestOptions_Validate_InputCountMismatch(t *testing.T) {
	opts := validOptions()
	opts.NumInputs = 7
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disagrees with sensor count")
}

func TestOptions_Validate_OutputCountFixed(t *testing.T) {
	opts := validOptions()
	opts.NumOutputs = 7
	assert.Error(t, opts.Validate())
}

func TestOptions_Workers_Default(t *testing.T) {
	opts := validOptions()
	assert.True(t, opts.Workers() > 0)
	opts.NumProcesses = 3
	assert.Equal(t, 3, opts.Workers())
}

const plainOptionsText = `population_size 50
compatibility_threshold 5.0
c1_excess 1.0
c2_disjoint 1.0
c3_weight 0.9
max_stagnation 20
weight_mutate_rate 0.6
weight_replace_rate 0.1
weight_mutate_power 0.5
weight_cap 8.0
weight_init_range 1.0
add_connection_rate 0.19
add_node_rate 0.09
crossover_rate 0.75
inherit_disabled_gene_rate 0.75
elitism 1
selection_percentage 0.2
initial_connections 8
maze_width 11
maze_height 11
max_steps_per_evaluation 400
num_rangefinders 4
rangefinder_max_dist 8.0
num_radar_slices 2
agent_max_speed 0.5
num_inputs 9
num_outputs 4
`

func TestLoadNeatOptions(t *testing.T) {
	opts, err := LoadNeatOptions(strings.NewReader(plainOptionsText))
	require.NoError(t, err)
	assert.Equal(t, 50, opts.PopSize)
	assert.Equal(t, 0.9, opts.WeightCoeff)
	assert.Equal(t, 11, opts.MazeWidth)
	assert.Equal(t, 4, opts.NumOutputs)
}

func TestLoadNeatOptions_UnknownKey(t *testing.T) {
	_, err := LoadNeatOptions(strings.NewReader("no_such_key 1\n"))
	assert.Error(t, err)
}

const yamlOptionsText = `population_size: 50
compatibility_threshold: 5.0
c1_excess: 1.0
c2_disjoint: 1.0
c3_weight: 0.9
max_stagnation: 20
weight_mutate_rate: 0.6
weight_replace_rate: 0.1
weight_mutate_power: 0.5
weight_cap: 8.0
weight_init_range: 1.0
add_connection_rate: 0.19
add_node_rate: 0.09
crossover_rate: 0.75
inherit_disabled_gene_rate: 0.75
elitism: 1
selection_percentage: 0.2
initial_connections: 8
maze_width: 11
maze_height: 11
maze_seed: 42
max_steps_per_evaluation: 400
num_rangefinders: 4
rangefinder_max_dist: 8.0
num_radar_slices: 2
agent_max_speed: 0.5
num_inputs: 9
num_outputs: 4
`

func TestLoadYAMLOptions(t *testing.T) {
	opts, err := LoadYAMLOptions(strings.NewReader(yamlOptionsText))
	require.NoError(t, err)
	assert.Equal(t, 50, opts.PopSize)
	assert.Equal(t, int64(42), opts.MazeSeed)
	assert.Equal(t, 8.0, opts.RangefinderMaxDist)
}

func TestLoadYAMLOptions_Invalid(t *testing.T) {
	// maze dimensions below the generator's minimum must be fatal
	broken := strings.Replace(yamlOptionsText, "maze_width: 11", "maze_width: 4", 1)
	_, err := LoadYAMLOptions(strings.NewReader(broken))
	assert.Error(t, err)
}
