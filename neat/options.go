// Package neat implements the NeuroEvolution of Augmenting Topologies (NEAT) method
// which can be used to evolve Artificial Neural Networks to perform specific tasks
// using genetic algorithms.
package neat

import (
	"github.com/pkg/errors"
	"runtime"
)

// Options The NEAT algorithm options holder. It is loaded once at start-up,
// validated, and frozen for the duration of the run.
type Options struct {
	// PopSize the target size of population in each generation
	PopSize int `yaml:"population_size"`

	// CompatThreshold the genomes compatibility threshold under which two genomes belong to the same species
	CompatThreshold float64 `yaml:"compatibility_threshold"`
	// ExcessCoeff the importance of excess genes in genomes compatibility (c1)
	ExcessCoeff float64 `yaml:"c1_excess"`
	// DisjointCoeff the importance of disjoint genes in genomes compatibility (c2)
	DisjointCoeff float64 `yaml:"c2_disjoint"`
	// WeightCoeff the importance of average weight difference between matching genes (c3)
	WeightCoeff float64 `yaml:"c3_weight"`

	// MaxStagnation the number of generations without improvement before a species becomes pruneable
	MaxStagnation int `yaml:"max_stagnation"`

	// WeightMutateRate the probability to mutate the weight of a connection gene
	WeightMutateRate float64 `yaml:"weight_mutate_rate"`
	// WeightReplaceRate the probability to replace a mutated weight with a fresh uniform draw
	WeightReplaceRate float64 `yaml:"weight_replace_rate"`
	// WeightMutatePower the standard deviation of the Gaussian weight perturbation
	WeightMutatePower float64 `yaml:"weight_mutate_power"`
	// WeightCap the absolute bound on connection weights and node biases
	WeightCap float64 `yaml:"weight_cap"`
	// WeightInitRange the half-range of uniformly drawn initial weights
	WeightInitRange float64 `yaml:"weight_init_range"`

	// AddConnectionRate the probability to attempt an add-connection mutation per child
	AddConnectionRate float64 `yaml:"add_connection_rate"`
	// AddNodeRate the probability to attempt an add-node mutation per child
	AddNodeRate float64 `yaml:"add_node_rate"`

	// CrossoverRate the probability to produce a child by mating rather than cloning
	CrossoverRate float64 `yaml:"crossover_rate"`
	// InheritDisabledGeneRate the probability to keep a matching gene disabled when either parent had it disabled
	InheritDisabledGeneRate float64 `yaml:"inherit_disabled_gene_rate"`
	// Elitism the number of top species members copied unchanged into the next generation
	Elitism int `yaml:"elitism"`
	// SelectionPercentage the fraction of species members eligible to become parents
	SelectionPercentage float64 `yaml:"selection_percentage"`

	// InitialConnections the number of random connections wired in an initial genome
	InitialConnections int `yaml:"initial_connections"`

	// MazeWidth the maze width in cells, odd and >= 5
	MazeWidth int `yaml:"maze_width"`
	// MazeHeight the maze height in cells, odd and >= 5
	MazeHeight int `yaml:"maze_height"`
	// MazeSeed the seed of the maze generator. When zero a random seed is drawn and recorded here.
	MazeSeed int64 `yaml:"maze_seed"`

	// MaxStepsPerEvaluation the simulation tick budget of one fitness evaluation
	MaxStepsPerEvaluation int `yaml:"max_steps_per_evaluation"`

	// NumRangefinders the number of distance-ray sensors of the agent
	NumRangefinders int `yaml:"num_rangefinders"`
	// RangefinderMaxDist the maximal distance the rangefinder rays may travel, in cells
	RangefinderMaxDist float64 `yaml:"rangefinder_max_dist"`
	// NumRadarSlices the number of angular sectors of the goal radar
	NumRadarSlices int `yaml:"num_radar_slices"`
	// AgentMaxSpeed the maximal linear speed of the agent, in cells per tick
	AgentMaxSpeed float64 `yaml:"agent_max_speed"`

	// NumInputs the network input count; must equal NumRangefinders + NumRadarSlices + 3
	NumInputs int `yaml:"num_inputs"`
	// NumOutputs the network output count; fixed at 4 motor signals
	NumOutputs int `yaml:"num_outputs"`

	// NumProcesses the number of parallel fitness evaluation workers. Defaults to hardware parallelism.
	NumProcesses int `yaml:"num_processes"`

	// Seed the top-level random seed of the run. When zero a random seed is drawn by the executor.
	Seed int64 `yaml:"seed"`

	// LogLevel the log output details level
	LogLevel string `yaml:"log_level"`
}

// NumMotorOutputs the motor command width the agent understands: turn-left,
// turn-right, accelerate and brake signals.
const NumMotorOutputs = 4

// Validate is to check that the options hold a sane configuration. Any error
// returned here is fatal and must be raised before evolution begins.
func (o *Options) Validate() error {
	if o.PopSize <= 0 {
		return errors.New("population_size must be positive")
	}
	if o.CompatThreshold <= 0 {
		return errors.New("compatibility_threshold must be positive")
	}
	if o.MaxStagnation <= 0 {
		return errors.New("max_stagnation must be positive")
	}
	if err := checkProbability("weight_mutate_rate", o.WeightMutateRate); err != nil {
		return err
	}
	if err := checkProbability("weight_replace_rate", o.WeightReplaceRate); err != nil {
		return err
	}
	if err := checkProbability("add_connection_rate", o.AddConnectionRate); err != nil {
		return err
	}
	if err := checkProbability("add_node_rate", o.AddNodeRate); err != nil {
		return err
	}
	if err := checkProbability("crossover_rate", o.CrossoverRate); err != nil {
		return err
	}
	if err := checkProbability("inherit_disabled_gene_rate", o.InheritDisabledGeneRate); err != nil {
		return err
	}
	if o.WeightCap <= 0 {
		return errors.New("weight_cap must be positive")
	}
	if o.SelectionPercentage <= 0 || o.SelectionPercentage > 1 {
		return errors.New("selection_percentage must be in (0, 1]")
	}
	if o.Elitism < 0 {
		return errors.New("elitism can not be negative")
	}
	if o.InitialConnections <= 0 {
		return errors.New("initial_connections must be positive")
	}
	if o.MazeWidth < 5 || o.MazeWidth%2 == 0 {
		return errors.Errorf("maze_width must be an odd integer >= 5, got: %d", o.MazeWidth)
	}
	if o.MazeHeight < 5 || o.MazeHeight%2 == 0 {
		return errors.Errorf("maze_height must be an odd integer >= 5, got: %d", o.MazeHeight)
	}
	if o.MaxStepsPerEvaluation <= 0 {
		return errors.New("max_steps_per_evaluation must be positive")
	}
	if o.NumRangefinders <= 0 || o.NumRadarSlices <= 0 {
		return errors.New("num_rangefinders and num_radar_slices must be positive")
	}
	if o.RangefinderMaxDist <= 0 {
		return errors.New("rangefinder_max_dist must be positive")
	}
	if o.AgentMaxSpeed <= 0 {
		return errors.New("agent_max_speed must be positive")
	}
	if expected := o.NumRangefinders + o.NumRadarSlices + 3; o.NumInputs != expected {
		return errors.Errorf("num_inputs [%d] disagrees with sensor count [%d] = num_rangefinders + num_radar_slices + 3",
			o.NumInputs, expected)
	}
	if o.NumOutputs != NumMotorOutputs {
		return errors.Errorf("num_outputs is fixed at %d motor signals, got: %d", NumMotorOutputs, o.NumOutputs)
	}
	return nil
}

// Workers Returns the configured number of parallel evaluation workers or
// the hardware parallelism when not set.
func (o *Options) Workers() int {
	if o.NumProcesses > 0 {
		return o.NumProcesses
	}
	return runtime.NumCPU()
}

func checkProbability(name string, value float64) error {
	if value < 0 || value > 1 {
		return errors.Errorf("%s must be a probability in [0, 1], got: %f", name, value)
	}
	return nil
}
