package genetics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Species is a group of genetically similar genomes. Reproduction takes place
// mostly within a single species, so that compatible genomes can mate, and
// the explicit fitness sharing within the group shields structural novelty.
type Species struct {
	// Id the unique species identifier, monotonic across the run
	Id int
	// Representative the frozen genome copy the classification of the next
	// generation is measured against. Selected from the members that existed
	// at the end of the previous generation.
	Representative *Genome
	// Members the genomes of the current generation assigned to this species
	Members Genomes

	// GenerationsSinceImprovement the stagnation counter
	GenerationsSinceImprovement int
	// BestFitnessEver the best raw fitness this species ever saw
	BestFitnessEver float64
	// TotalAdjustedFitness the sum of members' adjusted fitness
	TotalAdjustedFitness float64
	// ExpectedOffspring the offspring quota allocated for the next generation
	ExpectedOffspring int
}

// NewSpecies Constructs a new species founded by the provided genome. The
// founder becomes the first member and its frozen copy the representative.
func NewSpecies(id int, founder *Genome) *Species {
	s := &Species{
		Id:              id,
		Representative:  founder.Duplicate(founder.Id),
		Members:         make(Genomes, 0),
		BestFitnessEver: founder.Fitness,
	}
	s.addMember(founder)
	return s
}

// addMember Appends the genome to the members and assigns the species id to it
func (s *Species) addMember(g *Genome) {
	s.Members = append(s.Members, g)
	g.SpeciesId = s.Id
}

// clearMembers Drops the member list before the next speciation pass
func (s *Species) clearMembers() {
	s.Members = s.Members[:0]
	s.TotalAdjustedFitness = 0
	s.ExpectedOffspring = 0
}

// sortMembersByFitness Sorts the members by raw fitness, most fit first
func (s *Species) sortMembersByFitness() {
	sort.Sort(sort.Reverse(s.Members))
}

// updateStagnation Updates the stagnation counter and the best fitness ever
// seen. Expects the members already sorted by raw fitness descending.
func (s *Species) updateStagnation() {
	if len(s.Members) == 0 {
		s.GenerationsSinceImprovement++
		return
	}
	if best := s.Members[0].Fitness; best > s.BestFitnessEver {
		s.BestFitnessEver = best
		s.GenerationsSinceImprovement = 0
	} else {
		s.GenerationsSinceImprovement++
	}
}

// computeAdjustedFitness Shares the raw fitness within the species: each
// member's adjusted fitness is its raw fitness divided by the species size.
// The species total is the sum of those shares.
func (s *Species) computeAdjustedFitness() {
	s.TotalAdjustedFitness = 0
	size := float64(len(s.Members))
	for _, member := range s.Members {
		member.AdjustedFitness = member.Fitness / size
		s.TotalAdjustedFitness += member.AdjustedFitness
	}
}

// selectParents Returns the members eligible to reproduce: at least the top
// ceil(survivalFraction * size) of the fitness-sorted member list and always
// at least one. Expects the members already sorted by raw fitness descending.
func (s *Species) selectParents(survivalFraction float64) Genomes {
	count := int(math.Ceil(survivalFraction * float64(len(s.Members))))
	if count < 1 {
		count = 1
	}
	if count > len(s.Members) {
		count = len(s.Members)
	}
	return s.Members[:count]
}

// chooseRepresentative Picks the representative for the classification of the
// next generation uniformly at random from the current members and stores its
// frozen copy.
func (s *Species) chooseRepresentative(rng *rand.Rand) {
	if len(s.Members) == 0 {
		return
	}
	member := s.Members[rng.Intn(len(s.Members))]
	s.Representative = member.Duplicate(member.Id)
}

// FindChampion Returns the most fit member of this species or nil when empty
func (s *Species) FindChampion() *Genome {
	var champion *Genome
	for _, member := range s.Members {
		if champion == nil || member.Fitness > champion.Fitness {
			champion = member
		}
	}
	return champion
}

func (s *Species) String() string {
	return fmt.Sprintf("Species #%d: (Size %d) (BestEver %.3f) (Stagnated %d)",
		s.Id, len(s.Members), s.BestFitnessEver, s.GenerationsSinceImprovement)
}
