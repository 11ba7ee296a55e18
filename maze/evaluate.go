package maze

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/genetics"
)

// BaseReward the reward granted for reaching the maze goal. Half of it scales
// the speed bonus and the proximity score of unsuccessful runs.
const BaseReward = 1000.0

// the penalty per consumed step of a successful run
const stepPenalty = 0.7

// the share of the maximal speed below which the final velocity counts as stalling
const stallingVelocityShare = 0.1

// Evaluator runs one agent-in-maze simulation per genome and reduces it to a
// scalar fitness. It implements genetics.GenomeEvaluator and is safe to use
// from parallel evaluation workers: every evaluation builds its own maze and
// agent from the configuration, so no state is shared.
type Evaluator struct{}

// NewEvaluator Creates the maze navigation fitness evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// EvaluateGenome Builds the phenotype of the genome and drives a fresh agent
// through the maze for up to the configured step budget. Any failure of the
// simulation surfaces as an error which the pipeline contains into the
// minimal fitness.
func (e *Evaluator) EvaluateGenome(genome *genetics.Genome, opts *neat.Options, seed int64) (float64, bool, error) {
	m, err := NewMaze(opts.MazeWidth, opts.MazeHeight, opts.MazeSeed)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to build the evaluation maze")
	}
	net, err := genome.Genesis(genome.Id)
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed to build phenotype of genome [%d]", genome.Id)
	}

	rng := rand.New(rand.NewSource(seed))
	agent := NewAgent(m, opts, rng)

	for step := 0; step < opts.MaxStepsPerEvaluation; step++ {
		if agent.ReachedGoal {
			break
		}
		outputs, err := net.Activate(agent.SensorReadings(m))
		if err != nil {
			return 0, false, errors.Wrapf(err, "failed to activate phenotype of genome [%d]", genome.Id)
		}
		agent.Update(m, outputs, 1.0)
		agent.StepsTaken = step + 1
	}

	return fitnessOf(agent, m, opts), agent.ReachedGoal, nil
}

// fitnessOf Reduces the final agent state to the fitness score: the goal
// reward plus a speed bonus for successful runs, a quadratic proximity score
// for unsuccessful ones, with multiplicative penalties for collisions and
// stalling. The result is floored at the minimal fitness.
func fitnessOf(agent *Agent, m *Maze, opts *neat.Options) float64 {
	fitness := 0.0
	maxSteps := float64(opts.MaxStepsPerEvaluation)

	if agent.ReachedGoal {
		fitness += BaseReward
		speedBonus := BaseReward / 2.0 * (1.0 - float64(agent.StepsTaken)/maxSteps)
		fitness += math.Max(0, speedBonus)
		fitness -= stepPenalty * float64(agent.StepsTaken)
	} else if !math.IsInf(agent.MinDistToGoal, 1) {
		proximity := 1.0 - agent.MinDistToGoal/m.Diagonal()
		fitness += BaseReward / 2.0 * math.Pow(math.Max(0, proximity), 2)
	}

	if agent.CollidedEver {
		fitness *= 0.5
	}
	if agent.Velocity < stallingVelocityShare*opts.AgentMaxSpeed {
		fitness *= 0.5
	}

	return math.Max(genetics.MinimalFitness, fitness)
}
