package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/genetics"
)

// RunTrial Executes up to maxGenerations epochs over the provided population
// and collects the per-generation statistics. The run stops early when a
// winner is found. The context must carry the NEAT options of the run (see
// neat.NewContext). A batch of generations is cancellable through the context
// between generations only, never mid-generation; on cancellation the trial
// collected so far is returned along with the context error.
func RunTrial(ctx context.Context, pop *genetics.Population, evaluator genetics.GenomeEvaluator, maxGenerations, trialId int) (*Trial, error) {
	trial := &Trial{
		Id:          trialId,
		Generations: make(Generations, 0, maxGenerations),
	}
	trialStart := time.Now()

	for i := 0; i < maxGenerations; i++ {
		select {
		case <-ctx.Done():
			trial.Duration = time.Since(trialStart)
			return trial, ctx.Err()
		default:
		}

		epochStart := time.Now()
		if err := pop.Epoch(ctx, evaluator); err != nil {
			trial.Duration = time.Since(trialStart)
			return trial, errors.Wrapf(err, "epoch %d failed", pop.Generation)
		}
		stats, ok := pop.LastStatistics()
		if !ok {
			trial.Duration = time.Since(trialStart)
			return trial, errors.New("epoch completed without statistics record")
		}
		generation := newGeneration(stats, trialId, time.Since(epochStart))
		trial.Generations = append(trial.Generations, generation)

		neat.InfoLog(fmt.Sprintf("TRIAL %d: generation %d, max fitness: %.3f, avg fitness: %.3f, species: %d",
			trialId, generation.Id, generation.MaxFitness, generation.AvgFitness, generation.Diversity))

		if generation.Solved {
			neat.InfoLog(fmt.Sprintf("TRIAL %d: the maze solved at generation %d", trialId, generation.Id))
			break
		}
	}
	trial.Duration = time.Since(trialStart)
	return trial, nil
}

// Run Executes the full experiment: numTrials independent evolution runs
// with derived top-level seeds, each over a fresh population with the same
// configuration.
func Run(ctx context.Context, opts *neat.Options, evaluator genetics.GenomeEvaluator, maxGenerations, numTrials int) (*Experiment, error) {
	experiment := &Experiment{
		Name:   "maze navigation",
		Trials: make(Trials, 0, numTrials),
	}
	for trialId := 0; trialId < numTrials; trialId++ {
		trialOpts := *opts
		trialOpts.Seed = opts.Seed + int64(trialId)
		trialCtx := neat.NewContext(ctx, &trialOpts)

		pop, err := genetics.NewPopulation(&trialOpts, rand.New(rand.NewSource(trialOpts.Seed)))
		if err != nil {
			return experiment, errors.Wrapf(err, "failed to create population of trial %d", trialId)
		}
		trial, err := RunTrial(trialCtx, pop, evaluator, maxGenerations, trialId)
		trial.Seed = trialOpts.Seed
		experiment.Trials = append(experiment.Trials, trial)
		if err != nil {
			return experiment, err
		}
	}
	return experiment, nil
}
