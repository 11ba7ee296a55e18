package genetics

import (
	"fmt"
	"math/rand"

	"github.com/yaricom/goNEATMaze/neat"
)

// GenomeEvaluator is the component able to measure the fitness of one genome.
// Implementations run a complete task simulation and reduce it to a scalar.
// The evaluation must be self contained: it receives an exclusive genome copy
// and a seed to build its local random generator from, and must not touch any
// shared state.
type GenomeEvaluator interface {
	// EvaluateGenome Returns the raw fitness of the genome and whether the
	// genome solved the task. Any error is contained by the caller and turns
	// into the minimal fitness.
	EvaluateGenome(genome *Genome, opts *neat.Options, seed int64) (fitness float64, solved bool, err error)
}

// MinimalFitness the fitness floor assigned to failed evaluations. Keeps the
// adjusted-fitness shares away from division by zero.
const MinimalFitness = 0.001

// GenerationStatistics is one record of the per-generation statistics history
type GenerationStatistics struct {
	// Generation the one-based generation number
	Generation int `yaml:"generation"`
	// MaxFitness the best raw fitness of this generation
	MaxFitness float64 `yaml:"max_fitness"`
	// AvgFitness the average raw fitness of this generation
	AvgFitness float64 `yaml:"avg_fitness"`
	// BestEverFitness the fitness of the all-time best genome after this generation
	BestEverFitness float64 `yaml:"best_ever_fitness"`
	// SpeciesCount the number of species after the speciation pass
	SpeciesCount int `yaml:"species_count"`
	// WinnerFound set when some genome solved the task in this generation
	WinnerFound bool `yaml:"winner_found"`
	// WinnerNodes the node gene count of the winner genome or zero
	WinnerNodes int `yaml:"winner_nodes"`
	// WinnerGenes the connection gene count of the winner genome or zero
	WinnerGenes int `yaml:"winner_genes"`
}

// Population is the single owner of the evolutionary state of one run: the
// genomes of the active generation, the species, the innovation tracker and
// the identity counters. All phases of the generation pipeline except the
// parallel fitness evaluation run on the owner's thread.
type Population struct {
	// Genomes the active population members, exclusively owned by the pipeline
	Genomes Genomes
	// Species the species of the population in ascending id order
	Species []*Species
	// BestEver the frozen copy of the all-time best genome
	BestEver *Genome
	// Generation the number of completed generations
	Generation int
	// Statistics the per-generation statistics history
	Statistics []GenerationStatistics

	// the single owner of node id and innovation counters
	tracker *InnovationTracker
	// the frozen representatives the next speciation pass classifies against
	prevRepresentatives map[int]*Genome

	genomeIdSeq  int
	speciesIdSeq int

	opts *neat.Options
	rng  *rand.Rand
}

// NewPopulation Creates the initial population of randomly wired minimal
// genomes. The innovation tracker counters start right after the identities
// consumed by the initial topology.
func NewPopulation(opts *neat.Options, rng *rand.Rand) (*Population, error) {
	p := &Population{
		Genomes:             make(Genomes, 0, opts.PopSize),
		Species:             make([]*Species, 0),
		prevRepresentatives: make(map[int]*Genome),
		tracker:             NewInnovationTracker(opts.NumInputs+opts.NumOutputs+1, 0),
		opts:                opts,
		rng:                 rng,
	}
	for i := 0; i < opts.PopSize; i++ {
		genome := NewGenome(p.nextGenomeId(), opts, p.tracker, rng)
		if err := genome.Verify(); err != nil {
			return nil, err
		}
		p.Genomes = append(p.Genomes, genome)
	}
	neat.InfoLog(fmt.Sprintf("POPULATION: initial population of %d genomes created, next innovation: %d",
		len(p.Genomes), p.tracker.InnovationCounter()))
	return p, nil
}

func (p *Population) nextGenomeId() int {
	id := p.genomeIdSeq
	p.genomeIdSeq++
	return id
}

func (p *Population) nextSpeciesId() int {
	p.speciesIdSeq++
	return p.speciesIdSeq
}

// Tracker Returns the innovation tracker owned by this population
func (p *Population) Tracker() *InnovationTracker {
	return p.tracker
}

// FindGenome Returns the active population member with given id or nil
func (p *Population) FindGenome(id int) *Genome {
	for _, genome := range p.Genomes {
		if genome.Id == id {
			return genome
		}
	}
	return nil
}

// LastStatistics Returns the statistics record of the most recent generation
func (p *Population) LastStatistics() (GenerationStatistics, bool) {
	if len(p.Statistics) == 0 {
		return GenerationStatistics{}, false
	}
	return p.Statistics[len(p.Statistics)-1], true
}
