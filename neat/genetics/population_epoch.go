package genetics

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/yaricom/goNEATMaze/neat"
)

// evaluationJob is one fitness evaluation unit of work holding the exclusive
// genome copy handed to a worker
type evaluationJob struct {
	genomeId int
	genome   *Genome
	seed     int64
}

// evaluationJobResult is what a worker reports back for one genome
type evaluationJobResult struct {
	genomeId int
	fitness  float64
	solved   bool
}

// Epoch Turns the population over to the next generation. The phases run in
// the fixed order of the algorithm: innovation cache reset, parallel fitness
// evaluation, statistics aggregation, speciation against the previous
// generation representatives, fitness sharing, stagnation pruning, offspring
// allocation and reproduction. The context must carry the NEAT options of
// the run (see neat.NewContext).
func (p *Population) Epoch(ctx context.Context, evaluator GenomeEvaluator) error {
	opts, found := neat.FromContext(ctx)
	if !found {
		return neat.ErrNEATOptionsNotFound
	}

	p.Generation++
	generation := p.Generation

	// 1. reset the per-generation innovation cache
	p.tracker.ResetGenerationCache()

	// 2. evaluate every member in parallel
	results := p.evaluateParallel(opts, evaluator)
	for _, genome := range p.Genomes {
		result, ok := results[genome.Id]
		if !ok {
			genome.Fitness = MinimalFitness
			continue
		}
		if result.fitness < MinimalFitness {
			result.fitness = MinimalFitness
		}
		genome.Fitness = result.fitness
	}

	// 3. aggregate fitness statistics
	stats := GenerationStatistics{Generation: generation}
	var generationBest, winner *Genome
	total := 0.0
	for _, genome := range p.Genomes {
		total += genome.Fitness
		if generationBest == nil || genome.Fitness > generationBest.Fitness {
			generationBest = genome
		}
		if result := results[genome.Id]; result.solved {
			if winner == nil || genome.Fitness > winner.Fitness {
				winner = genome
			}
		}
	}
	if len(p.Genomes) > 0 {
		stats.MaxFitness = generationBest.Fitness
		stats.AvgFitness = total / float64(len(p.Genomes))
	}
	if winner != nil {
		stats.WinnerFound = true
		stats.WinnerNodes = len(winner.Nodes)
		stats.WinnerGenes = len(winner.Connections)
	}
	if generationBest != nil && (p.BestEver == nil || generationBest.Fitness > p.BestEver.Fitness) {
		p.BestEver = generationBest.Duplicate(generationBest.Id)
	}
	if p.BestEver != nil {
		stats.BestEverFitness = p.BestEver.Fitness
	}

	// 4. snapshot the previous-generation representatives before any species
	// membership is touched
	p.prevRepresentatives = make(map[int]*Genome, len(p.Species))
	for _, species := range p.Species {
		if species.Representative != nil {
			p.prevRepresentatives[species.Id] = species.Representative.Duplicate(species.Representative.Id)
		}
	}

	// 5. speciate against the stored representatives
	p.speciate(opts)
	stats.SpeciesCount = len(p.Species)

	// 6. per-species fitness sharing
	for _, species := range p.Species {
		species.computeAdjustedFitness()
	}

	// 7. stagnation handling
	p.pruneStagnatedSpecies(opts)

	// 8. offspring quotas
	p.allocateOffspring(opts)

	// 9 & 10. reproduction with population top-up
	nextGeneration, err := p.reproduce(opts)
	if err != nil {
		return errors.Wrap(err, "reproduction failed")
	}
	p.Genomes = nextGeneration

	// 11. record the generation statistics
	p.Statistics = append(p.Statistics, stats)

	neat.DebugLog(fmt.Sprintf("POPULATION: >>>>> Epoch %d complete, max fitness: %f, species: %d",
		generation, stats.MaxFitness, stats.SpeciesCount))

	return nil
}

// evaluateParallel Dispatches one evaluation job per population member to a
// pool of workers and collects the results keyed by genome id. Workers get
// exclusive genome copies and per-genome seeds, so the collection order can
// not perturb the run. A worker failure of any kind is contained and yields
// the minimal fitness for that genome only.
func (p *Population) evaluateParallel(opts *neat.Options, evaluator GenomeEvaluator) map[int]evaluationJobResult {
	popSize := len(p.Genomes)
	jobsChan := make(chan evaluationJob, popSize)
	resChan := make(chan evaluationJobResult, popSize)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				resChan <- runEvaluationJob(opts, evaluator, job)
			}
		}()
	}

	for _, genome := range p.Genomes {
		jobsChan <- evaluationJob{
			genomeId: genome.Id,
			genome:   genome.Duplicate(genome.Id),
			seed:     opts.Seed ^ int64(genome.Id),
		}
	}
	close(jobsChan)

	wg.Wait()
	close(resChan)

	results := make(map[int]evaluationJobResult, popSize)
	for result := range resChan {
		results[result.genomeId] = result
	}
	return results
}

// runEvaluationJob Runs a single evaluation containing every fault at the
// worker boundary: an error or a panic becomes the minimal fitness result.
func runEvaluationJob(opts *neat.Options, evaluator GenomeEvaluator, job evaluationJob) (result evaluationJobResult) {
	result = evaluationJobResult{genomeId: job.genomeId, fitness: MinimalFitness}
	defer func() {
		if r := recover(); r != nil {
			neat.WarnLog(fmt.Sprintf("POPULATION: evaluation of genome [%d] panicked: %v", job.genomeId, r))
			result = evaluationJobResult{genomeId: job.genomeId, fitness: MinimalFitness}
		}
	}()
	fitness, solved, err := evaluator.EvaluateGenome(job.genome, opts, job.seed)
	if err != nil {
		neat.WarnLog(fmt.Sprintf("POPULATION: evaluation of genome [%d] failed: %v", job.genomeId, err))
		return result
	}
	result.fitness = fitness
	result.solved = solved
	return result
}

// speciate Assigns every genome of the population to a species. Each genome
// is measured against the stored previous-generation representatives in
// ascending species id order and joins the first species within the
// compatibility threshold; then against the species newly created during this
// pass; when nothing matches it founds a brand-new species. Empty species are
// dropped afterwards and each survivor picks a fresh representative for the
// next generation.
func (p *Population) speciate(opts *neat.Options) {
	for _, species := range p.Species {
		species.clearMembers()
	}

	// the species carried over from the previous generation in ascending id
	// order for the deterministic classification sequence
	existing := make([]*Species, 0, len(p.prevRepresentatives))
	speciesById := make(map[int]*Species, len(p.Species))
	for _, species := range p.Species {
		speciesById[species.Id] = species
	}
	prevIds := make([]int, 0, len(p.prevRepresentatives))
	for id := range p.prevRepresentatives {
		prevIds = append(prevIds, id)
	}
	sort.Ints(prevIds)
	for _, id := range prevIds {
		species, ok := speciesById[id]
		if !ok {
			continue
		}
		existing = append(existing, species)
	}

	created := make([]*Species, 0)
	for _, genome := range p.Genomes {
		assigned := false
		for _, species := range existing {
			representative := p.prevRepresentatives[species.Id]
			if genome.compatibility(representative, opts) < opts.CompatThreshold {
				species.addMember(genome)
				assigned = true
				break
			}
		}
		if assigned {
			continue
		}
		for _, species := range created {
			if genome.compatibility(species.Representative, opts) < opts.CompatThreshold {
				species.addMember(genome)
				assigned = true
				break
			}
		}
		if !assigned {
			created = append(created, NewSpecies(p.nextSpeciesId(), genome))
		}
	}

	survivors := make([]*Species, 0, len(existing)+len(created))
	for _, species := range append(existing, created...) {
		if len(species.Members) > 0 {
			survivors = append(survivors, species)
		} else {
			neat.DebugLog(fmt.Sprintf("POPULATION: species [%d] lost all members and is dropped", species.Id))
		}
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].Id < survivors[j].Id })
	p.Species = survivors

	// the fresh representatives become the classification anchors of the
	// next generation
	for _, species := range p.Species {
		species.chooseRepresentative(p.rng)
	}
}

// pruneStagnatedSpecies Updates the stagnation counters and removes species
// stagnated beyond the configured limit. The species holding the all-time
// best genome is always kept, and removal is suppressed entirely when fewer
// than two non-stagnant species remain.
func (p *Population) pruneStagnatedSpecies(opts *neat.Options) {
	nonStagnant := 0
	for _, species := range p.Species {
		species.sortMembersByFitness()
		species.updateStagnation()
		if species.GenerationsSinceImprovement <= opts.MaxStagnation {
			nonStagnant++
		}
	}
	canRemove := nonStagnant >= 2

	var bestSpecies *Species
	for _, species := range p.Species {
		if bestSpecies == nil || species.BestFitnessEver > bestSpecies.BestFitnessEver {
			bestSpecies = species
		}
	}

	kept := make([]*Species, 0, len(p.Species))
	for _, species := range p.Species {
		stagnated := species.GenerationsSinceImprovement > opts.MaxStagnation
		if stagnated && canRemove && species != bestSpecies {
			neat.InfoLog(fmt.Sprintf("POPULATION: species [%d] removed after %d generations without improvement",
				species.Id, species.GenerationsSinceImprovement))
			continue
		}
		kept = append(kept, species)
	}
	p.Species = kept
}

// allocateOffspring Distributes the population seats among the surviving
// species proportionally to their shares of the total adjusted fitness. The
// remainder seats go to the species with the greatest fractional parts. When
// the total is not positive every species gets an equal share with the
// remainder handed out round-robin.
func (p *Population) allocateOffspring(opts *neat.Options) {
	if len(p.Species) == 0 {
		return
	}
	totalAdjusted := 0.0
	for _, species := range p.Species {
		if species.TotalAdjustedFitness > 0 {
			totalAdjusted += species.TotalAdjustedFitness
		}
	}

	target := opts.PopSize
	if totalAdjusted <= 0 {
		base := target / len(p.Species)
		remainder := target % len(p.Species)
		for i, species := range p.Species {
			species.ExpectedOffspring = base
			if i < remainder {
				species.ExpectedOffspring++
			}
		}
		return
	}

	type fractionalSeat struct {
		species  *Species
		fraction float64
	}
	allocated := 0
	fractions := make([]fractionalSeat, 0, len(p.Species))
	for _, species := range p.Species {
		exact := species.TotalAdjustedFitness / totalAdjusted * float64(target)
		seats := int(math.Floor(exact))
		species.ExpectedOffspring = seats
		allocated += seats
		fractions = append(fractions, fractionalSeat{species: species, fraction: exact - float64(seats)})
	}
	sort.SliceStable(fractions, func(i, j int) bool {
		if fractions[i].fraction == fractions[j].fraction {
			return fractions[i].species.Id < fractions[j].species.Id
		}
		return fractions[i].fraction > fractions[j].fraction
	})
	for i := 0; allocated < target && i < len(fractions); i++ {
		fractions[i].species.ExpectedOffspring++
		allocated++
	}
}

// reproduce Produces the next generation: per-species elitism, parent
// selection and crossover-plus-mutation until the offspring quota is spent,
// followed by the population top-up to the exact configured size.
func (p *Population) reproduce(opts *neat.Options) (Genomes, error) {
	next := make(Genomes, 0, opts.PopSize)

	for _, species := range p.Species {
		quota := species.ExpectedOffspring
		if quota < 1 || len(species.Members) == 0 {
			continue
		}
		species.sortMembersByFitness()

		// elitism: direct copies of the top members under fresh ids
		for i := 0; i < opts.Elitism && i < len(species.Members) && quota > 0; i++ {
			elite := species.Members[i].Duplicate(p.nextGenomeId())
			next = append(next, elite)
			quota--
		}

		parents := species.selectParents(opts.SelectionPercentage)
		for quota > 0 {
			child, err := p.spawnChild(opts, parents)
			if err != nil {
				return nil, err
			}
			next = append(next, child)
			quota--
		}
	}

	return p.topUpPopulation(opts, next)
}

// spawnChild Produces one child from the parent pool by crossover or cloning
// followed by the mutation battery.
func (p *Population) spawnChild(opts *neat.Options, parents Genomes) (*Genome, error) {
	rng := p.rng

	var child *Genome
	childId := p.nextGenomeId()
	if len(parents) > 1 && rng.Float64() < opts.CrossoverRate {
		p1 := parents[rng.Intn(len(parents))]
		p2 := pickDistinctParent(parents, p1, rng)
		// ties of raw fitness resolve deterministically to the first parent
		firstFitter := p1.Fitness >= p2.Fitness
		child = mate(p1, p2, childId, firstFitter, opts, rng)
	} else {
		child = parents[rng.Intn(len(parents))].Duplicate(childId)
	}
	child.SpeciesId = 0
	child.Fitness = 0
	child.AdjustedFitness = 0

	child.mutateWeights(opts, rng)
	if rng.Float64() < opts.AddConnectionRate {
		child.mutateAddConnection(p.tracker, opts, rng)
	}
	if rng.Float64() < opts.AddNodeRate {
		child.mutateAddNode(p.tracker, rng)
	}

	if err := child.Verify(); err != nil {
		return nil, errors.Wrapf(err, "child genome [%d] malformed after mutation", child.Id)
	}
	return child, nil
}

func pickDistinctParent(parents Genomes, first *Genome, rng *rand.Rand) *Genome {
	second := parents[rng.Intn(len(parents))]
	for attempt := 0; second.Id == first.Id && attempt < 5; attempt++ {
		second = parents[rng.Intn(len(parents))]
	}
	return second
}

// topUpPopulation Brings the emitted offspring to the exact population size:
// missing seats are filled with weight-mutated copies of the survivors and,
// when no survivors remain, with fresh initial genomes; excess is truncated.
func (p *Population) topUpPopulation(opts *neat.Options, next Genomes) (Genomes, error) {
	if len(next) > opts.PopSize {
		next = next[:opts.PopSize]
		return next, nil
	}
	if len(next) == opts.PopSize {
		return next, nil
	}

	survivors := make(Genomes, 0)
	for _, species := range p.Species {
		survivors = append(survivors, species.Members...)
	}
	sort.Sort(sort.Reverse(survivors))

	for i := 0; len(next) < opts.PopSize && len(survivors) > 0; i++ {
		filler := survivors[i%len(survivors)].Duplicate(p.nextGenomeId())
		filler.mutateWeights(opts, p.rng)
		if err := filler.Verify(); err != nil {
			return nil, errors.Wrapf(err, "filler genome [%d] malformed after mutation", filler.Id)
		}
		next = append(next, filler)
	}
	if len(next) < opts.PopSize {
		neat.WarnLog("POPULATION: no survivors to fill the population, synthesizing fresh genomes")
	}
	for len(next) < opts.PopSize {
		genome := NewGenome(p.nextGenomeId(), opts, p.tracker, p.rng)
		if err := genome.Verify(); err != nil {
			return nil, err
		}
		next = append(next, genome)
	}
	return next, nil
}
