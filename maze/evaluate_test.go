package maze

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"math/rand"
	"testing"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/genetics"
)

func evaluatorOptions() *neat.Options {
	opts := agentOptions()
	opts.PopSize = 10
	opts.InitialConnections = 8
	opts.WeightInitRange = 1.0
	opts.WeightCap = 8.0
	return opts
}

func buildEvaluationGenome(t *testing.T, opts *neat.Options, seed int64) *genetics.Genome {
	t.Helper()
	tracker := genetics.NewInnovationTracker(opts.NumInputs+opts.NumOutputs+1, 0)
	genome := genetics.NewGenome(1, opts, tracker, rand.New(rand.NewSource(seed)))
	require.NoError(t, genome.Verify())
	return genome
}

func TestEvaluator_EvaluateGenome(t *testing.T) {
	opts := evaluatorOptions()
	genome := buildEvaluationGenome(t, opts, 3)

	fitness, solved, err := NewEvaluator().EvaluateGenome(genome, opts, 17)
	require.NoError(t, err)
	assert.True(t, fitness >= genetics.MinimalFitness)
	if !solved {
		// an unsuccessful run earns at most half the base reward
		assert.True(t, fitness <= BaseReward/2.0+1e-9)
	}
}

func TestEvaluator_EvaluateGenome_Reproducible(t *testing.T) {
	opts := evaluatorOptions()
	genome := buildEvaluationGenome(t, opts, 3)

	evaluator := NewEvaluator()
	first, firstSolved, err := evaluator.EvaluateGenome(genome, opts, 17)
	require.NoError(t, err)
	second, secondSolved, err := evaluator.EvaluateGenome(genome.Duplicate(genome.Id), opts, 17)
	require.NoError(t, err)

	assert.Equal(t, first, second, "the same genome and seed must reproduce the same fitness")
	assert.Equal(t, firstSolved, secondSolved)
}

func TestEvaluator_EvaluateGenome_BrokenGenome(t *testing.T) {
	opts := evaluatorOptions()
	genome := buildEvaluationGenome(t, opts, 3)
	// a genome without connection genes can not produce a phenotype
	for innovation := range genome.Connections {
		delete(genome.Connections, innovation)
	}

	_, _, err := NewEvaluator().EvaluateGenome(genome, opts, 17)
	assert.Error(t, err)
}

func TestFitnessOf_GoalReached(t *testing.T) {
	opts := evaluatorOptions()
	m, err := NewMaze(opts.MazeWidth, opts.MazeHeight, opts.MazeSeed)
	require.NoError(t, err)

	agent := NewAgent(m, opts, rand.New(rand.NewSource(1)))
	agent.ReachedGoal = true
	agent.StepsTaken = 100
	agent.Velocity = opts.AgentMaxSpeed

	// base reward + speed bonus - step penalty
	expected := BaseReward + BaseReward/2.0*(1.0-100.0/float64(opts.MaxStepsPerEvaluation)) - stepPenalty*100.0
	assert.InDelta(t, expected, fitnessOf(agent, m, opts), 1e-9)
}

func TestFitnessOf_ProximityScore(t *testing.T) {
	opts := evaluatorOptions()
	m, err := NewMaze(opts.MazeWidth, opts.MazeHeight, opts.MazeSeed)
	require.NoError(t, err)

	agent := NewAgent(m, opts, rand.New(rand.NewSource(1)))
	agent.Velocity = opts.AgentMaxSpeed
	agent.MinDistToGoal = m.Diagonal() / 2.0

	expected := BaseReward / 2.0 * math.Pow(0.5, 2)
	assert.InDelta(t, expected, fitnessOf(agent, m, opts), 1e-9)
}

func TestFitnessOf_Penalties(t *testing.T) {
	opts := evaluatorOptions()
	m, err := NewMaze(opts.MazeWidth, opts.MazeHeight, opts.MazeSeed)
	require.NoError(t, err)

	base := func() *Agent {
		agent := NewAgent(m, opts, rand.New(rand.NewSource(1)))
		agent.Velocity = opts.AgentMaxSpeed
		agent.MinDistToGoal = m.Diagonal() / 2.0
		return agent
	}
	clean := fitnessOf(base(), m, opts)

	collided := base()
	collided.CollidedEver = true
	assert.InDelta(t, clean*0.5, fitnessOf(collided, m, opts), 1e-9)

	stalled := base()
	stalled.Velocity = 0.05 * opts.AgentMaxSpeed
	assert.InDelta(t, clean*0.5, fitnessOf(stalled, m, opts), 1e-9)

	both := base()
	both.CollidedEver = true
	both.Velocity = 0
	assert.InDelta(t, clean*0.25, fitnessOf(both, m, opts), 1e-9)
}

func TestFitnessOf_Floor(t *testing.T) {
	opts := evaluatorOptions()
	m, err := NewMaze(opts.MazeWidth, opts.MazeHeight, opts.MazeSeed)
	require.NoError(t, err)

	// an agent which saw nothing scores the minimal fitness
	agent := NewAgent(m, opts, rand.New(rand.NewSource(1)))
	agent.MinDistToGoal = m.Diagonal() * 2
	assert.Equal(t, genetics.MinimalFitness, fitnessOf(agent, m, opts))
}
