// Package experiment defines the multi-generation execution harness of the
// evolutionary process and the collectors of its per-generation statistics.
package experiment

import (
	"time"

	"github.com/yaricom/goNEATMaze/neat/genetics"
)

// Generation represents the execution results of one generation
type Generation struct {
	// Id the generation number, one-based
	Id int `csv:"generation"`
	// Executed the time when the generation evaluation completed
	Executed time.Time `csv:"-"`
	// Duration the elapsed wall time of the generation
	Duration time.Duration `csv:"duration_ns"`
	// MaxFitness the best raw fitness of the generation
	MaxFitness float64 `csv:"max_fitness"`
	// AvgFitness the average raw fitness of the generation
	AvgFitness float64 `csv:"avg_fitness"`
	// BestEverFitness the all-time best fitness after the generation
	BestEverFitness float64 `csv:"best_ever_fitness"`
	// Diversity the number of species after the speciation pass
	Diversity int `csv:"species"`
	// Solved whether some genome reached the maze goal this generation
	Solved bool `csv:"solved"`
	// WinnerNodes the node gene count of the winner genome or zero
	WinnerNodes int `csv:"winner_nodes"`
	// WinnerGenes the connection gene count of the winner genome or zero
	WinnerGenes int `csv:"winner_genes"`

	// TrialId the id of the trial this generation was evaluated in
	TrialId int `csv:"trial"`
}

// newGeneration Builds the generation record from the population statistics
func newGeneration(stats genetics.GenerationStatistics, trialId int, duration time.Duration) Generation {
	return Generation{
		Id:              stats.Generation,
		Executed:        time.Now(),
		Duration:        duration,
		MaxFitness:      stats.MaxFitness,
		AvgFitness:      stats.AvgFitness,
		BestEverFitness: stats.BestEverFitness,
		Diversity:       stats.SpeciesCount,
		Solved:          stats.WinnerFound,
		WinnerNodes:     stats.WinnerNodes,
		WinnerGenes:     stats.WinnerGenes,
		TrialId:         trialId,
	}
}

// Generations is a collection of generation results
type Generations []Generation
