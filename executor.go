package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/yaricom/goNEATMaze/experiment"
	"github.com/yaricom/goNEATMaze/maze"
	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/genetics"
	"github.com/yaricom/goNEATMaze/neat/network/formats"
)

// The maze navigation experiment runner boilerplate code
func main() {
	var outDirPath = flag.String("out", "./out", "The output directory to store results.")
	var optionsPath = flag.String("options", "./data/maze.neat.yml", "The NEAT options file of the run (.yml or plain .neat format).")
	var statePath = flag.String("load", "", "The saved evolutionary state to resume from.")
	var generations = flag.Int("generations", 100, "The number of generations to evolve.")
	var trialsCount = flag.Int("trials", 1, "The number of experiment trials (ignored when resuming from a saved state).")
	var seed = flag.Int64("seed", 0, "The top-level random seed. Overrides the one set in options; 0 draws from the clock.")
	var logLevel = flag.String("log_level", "", "The logger level to be used. Overrides the one set in options.")

	flag.Parse()

	// Load the NEAT options
	neatOptions, err := neat.ReadOptions(*optionsPath)
	if err != nil {
		log.Fatal("Failed to load NEAT options: ", err)
	}
	if len(*logLevel) > 0 {
		neat.LogLevel = neat.LoggerLevel(*logLevel)
	}
	if *seed != 0 {
		neatOptions.Seed = *seed
	}
	if neatOptions.Seed == 0 {
		neatOptions.Seed = time.Now().UnixNano()
		neat.InfoLog(fmt.Sprintf("Drawn top-level seed: %d", neatOptions.Seed))
	}
	if neatOptions.MazeSeed == 0 {
		neatOptions.MazeSeed = neatOptions.Seed
		neat.InfoLog(fmt.Sprintf("Recorded maze seed: %d", neatOptions.MazeSeed))
	}

	// Check if output dir exists
	outDir := *outDirPath
	if _, err = os.Stat(outDir); err == nil {
		// backup it
		backUpDir := fmt.Sprintf("%s-%s", outDir, time.Now().Format("2006-01-02T15_04_05"))
		if err = os.Rename(outDir, backUpDir); err != nil {
			log.Fatal("Failed to do previous results backup: ", err)
		}
	}
	output, err := experiment.NewOutputManager(outDir)
	if err != nil {
		log.Fatal("Failed to create output directory: ", err)
	}
	if err = output.WriteOptions(neatOptions); err != nil {
		log.Fatal("Failed to store the options snapshot: ", err)
	}

	// A batch of generations is cancellable between generations only
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		neat.InfoLog(fmt.Sprintf("Signal %v received, stopping after the current generation", sig))
		cancel()
	}()

	evaluator := maze.NewEvaluator()

	if *statePath != "" {
		runResumed(ctx, *statePath, neatOptions, evaluator, *generations, output)
	} else {
		runFresh(ctx, neatOptions, evaluator, *generations, *trialsCount, output)
	}
}

// runFresh executes the configured number of fresh trials
func runFresh(ctx context.Context, opts *neat.Options, evaluator genetics.GenomeEvaluator, generations, trials int, output *experiment.OutputManager) {
	exp := &experiment.Experiment{Name: "maze navigation", Trials: make(experiment.Trials, 0, trials)}
	for trialId := 0; trialId < trials; trialId++ {
		trialOpts := *opts
		trialOpts.Seed = opts.Seed + int64(trialId)
		trialCtx := neat.NewContext(ctx, &trialOpts)
		pop, err := genetics.NewPopulation(&trialOpts, rand.New(rand.NewSource(trialOpts.Seed)))
		if err != nil {
			log.Fatal("Failed to create the initial population: ", err)
		}
		trial, err := experiment.RunTrial(trialCtx, pop, evaluator, generations, trialId)
		if trial != nil {
			trial.Seed = trialOpts.Seed
			exp.Trials = append(exp.Trials, trial)
			if csvErr := output.WriteGenerations(trial.Generations); csvErr != nil {
				neat.ErrorLog(fmt.Sprintf("Failed to write the generations CSV: %v", csvErr))
			}
			storeTrialArtifacts(pop, trialId, output)
		}
		if err != nil {
			if ctx.Err() != nil {
				neat.InfoLog("Run cancelled")
				break
			}
			log.Fatal("Trial failed: ", err)
		}
	}
	finishExperiment(exp, output)
}

// runResumed restores the evolutionary state and continues the run as one trial
func runResumed(ctx context.Context, statePath string, opts *neat.Options, evaluator genetics.GenomeEvaluator, generations int, output *experiment.OutputManager) {
	stateFile, err := os.Open(statePath)
	if err != nil {
		log.Fatal("Failed to open the saved state: ", err)
	}
	defer func() {
		_ = stateFile.Close()
	}()
	pop, savedOpts, err := genetics.ReadPopulation(stateFile, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		log.Fatal("Failed to restore the evolutionary state: ", err)
	}
	neat.InfoLog(fmt.Sprintf("Resumed from generation %d with %d genomes and %d species",
		pop.Generation, len(pop.Genomes), len(pop.Species)))
	savedOpts.Seed = opts.Seed

	exp := &experiment.Experiment{Name: "maze navigation (resumed)"}
	trial, err := experiment.RunTrial(neat.NewContext(ctx, savedOpts), pop, evaluator, generations, 0)
	if trial != nil {
		trial.Seed = savedOpts.Seed
		exp.Trials = append(exp.Trials, trial)
		if csvErr := output.WriteGenerations(trial.Generations); csvErr != nil {
			neat.ErrorLog(fmt.Sprintf("Failed to write the generations CSV: %v", csvErr))
		}
		storeTrialArtifacts(pop, 0, output)
	}
	if err != nil && ctx.Err() == nil {
		log.Fatal("Trial failed: ", err)
	}
	finishExperiment(exp, output)
}

// storeTrialArtifacts persists the evolutionary state of the finished trial
// and the DOT diagram of the best phenotype
func storeTrialArtifacts(pop *genetics.Population, trialId int, output *experiment.OutputManager) {
	if output.Dir() == "" {
		return
	}
	statePath := filepath.Join(output.Dir(), fmt.Sprintf("state_trial_%d.yml", trialId))
	stateFile, err := os.Create(statePath)
	if err != nil {
		neat.ErrorLog(fmt.Sprintf("Failed to create the state file: %v", err))
		return
	}
	defer func() {
		_ = stateFile.Close()
	}()
	if err = pop.Write(stateFile); err != nil {
		neat.ErrorLog(fmt.Sprintf("Failed to save the evolutionary state: %v", err))
		return
	}
	neat.InfoLog(fmt.Sprintf("Evolutionary state of trial %d saved to: %s", trialId, statePath))

	if pop.BestEver == nil {
		return
	}
	phenotype, err := pop.BestEver.Genesis(pop.BestEver.Id)
	if err != nil {
		neat.WarnLog(fmt.Sprintf("Failed to build the best phenotype for export: %v", err))
		return
	}
	phenotype.Name = fmt.Sprintf("maze_best_trial_%d", trialId)
	dotPath := filepath.Join(output.Dir(), fmt.Sprintf("best_trial_%d.dot", trialId))
	dotFile, err := os.Create(dotPath)
	if err != nil {
		neat.ErrorLog(fmt.Sprintf("Failed to create the DOT file: %v", err))
		return
	}
	defer func() {
		_ = dotFile.Close()
	}()
	if err = formats.WriteDOT(dotFile, phenotype); err != nil {
		neat.WarnLog(fmt.Sprintf("Failed to export the best phenotype: %v", err))
	}
}

// finishExperiment prints the aggregate statistics and dumps the NPZ results
func finishExperiment(exp *experiment.Experiment, output *experiment.OutputManager) {
	exp.PrintStatistics(os.Stdout)
	if err := output.WriteExperimentNPZ(exp); err != nil {
		neat.ErrorLog(fmt.Sprintf("Failed to write the NPZ results: %v", err))
	}
}
