package genetics

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stdmath "math"
	"testing"

	"github.com/yaricom/goNEATMaze/neat"
)

// weightSumEvaluator is a deterministic stub: the fitness of a genome is the
// sum of absolute weights of its enabled connections
type weightSumEvaluator struct{}

func (e weightSumEvaluator) EvaluateGenome(genome *Genome, _ *neat.Options, _ int64) (float64, bool, error) {
	total := 0.0
	for _, innovation := range genome.ConnectionInnovations() {
		if conn := genome.Connections[innovation]; conn.Enabled {
			total += stdmath.Abs(conn.Weight)
		}
	}
	return total + MinimalFitness, false, nil
}

// failingEvaluator always reports an error
type failingEvaluator struct{}

func (e failingEvaluator) EvaluateGenome(*Genome, *neat.Options, int64) (float64, bool, error) {
	return 0, false, errors.New("simulated evaluation failure")
}

// panicEvaluator dies on every genome
type panicEvaluator struct{}

func (e panicEvaluator) EvaluateGenome(*Genome, *neat.Options, int64) (float64, bool, error) {
	panic("simulated worker crash")
}

func TestPopulation_Epoch(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), weightSumEvaluator{}))

	assert.Equal(t, 1, p.Generation)
	assert.Len(t, p.Genomes, opts.PopSize, "the population size must be kept")
	require.Len(t, p.Statistics, 1)
	stats := p.Statistics[0]
	assert.True(t, stats.MaxFitness >= stats.AvgFitness)
	assert.True(t, stats.SpeciesCount > 0)
	require.NotNil(t, p.BestEver)
	assert.Equal(t, stats.MaxFitness, p.BestEver.Fitness)

	for _, genome := range p.Genomes {
		assert.NoError(t, genome.Verify())
	}
}

func TestPopulation_Epoch_OptionsNotInContext(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	err = p.Epoch(context.Background(), weightSumEvaluator{})
	assert.ErrorIs(t, err, neat.ErrNEATOptionsNotFound)
	assert.Equal(t, 0, p.Generation, "a failed options lookup must not advance the generation")
}

func TestPopulation_Epoch_FailedEvaluations(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), failingEvaluator{}))
	stats := p.Statistics[0]
	assert.Equal(t, MinimalFitness, stats.MaxFitness, "failed evaluations produce the minimal fitness")
	assert.InDelta(t, MinimalFitness, stats.AvgFitness, 1e-12)
	assert.Len(t, p.Genomes, opts.PopSize)
}

func TestPopulation_Epoch_PanickingWorkers(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	// a panicking evaluation must not kill the worker pool
	require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), panicEvaluator{}))
	assert.Len(t, p.Genomes, opts.PopSize)
	assert.Equal(t, MinimalFitness, p.Statistics[0].MaxFitness)
}

func TestPopulation_Epoch_Deterministic(t *testing.T) {
	opts := testOptions()

	histories := make([][]GenerationStatistics, 2)
	for round := 0; round < 2; round++ {
		p, err := NewPopulation(opts, testRand(opts.Seed))
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), weightSumEvaluator{}))
		}
		histories[round] = p.Statistics
	}
	// the same configuration and seed reproduce the same per-generation
	// max, average and species count history
	assert.Equal(t, histories[0], histories[1])
}

func TestPopulation_Epoch_BestEverNeverDecreases(t *testing.T) {
	opts := testOptions()
	opts.Elitism = 1
	// structural mutations stay at their configured rates
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	previousBestEver := 0.0
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), weightSumEvaluator{}))
		stats := p.Statistics[len(p.Statistics)-1]
		assert.True(t, stats.BestEverFitness >= previousBestEver,
			"the all-time best fitness must never decrease")
		previousBestEver = stats.BestEverFitness
	}
}

func TestPopulation_Epoch_StagnationPruning(t *testing.T) {
	opts := testOptions()
	opts.MaxStagnation = 1
	opts.CompatThreshold = 0.5
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	// constant fitness stagnates every species; the run must keep going with
	// at least the best species alive
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), failingEvaluator{}))
		assert.Len(t, p.Genomes, opts.PopSize)
	}
}

func TestPopulation_Epoch_WinnerStatistics(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	solver := evaluatorFunc(func(genome *Genome, _ *neat.Options, _ int64) (float64, bool, error) {
		return 1.0, true, nil
	})
	require.NoError(t, p.Epoch(neat.NewContext(context.Background(), opts), solver))
	stats := p.Statistics[0]
	assert.True(t, stats.WinnerFound)
	assert.True(t, stats.WinnerNodes > 0)
	assert.True(t, stats.WinnerGenes > 0)
}

// evaluatorFunc adapts a plain function to the GenomeEvaluator interface
type evaluatorFunc func(*Genome, *neat.Options, int64) (float64, bool, error)

func (f evaluatorFunc) EvaluateGenome(genome *Genome, opts *neat.Options, seed int64) (float64, bool, error) {
	return f(genome, opts, seed)
}
