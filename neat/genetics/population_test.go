package genetics

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"

	"github.com/yaricom/goNEATMaze/neat"
)

func TestNewPopulation(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	assert.Len(t, p.Genomes, opts.PopSize)
	for _, genome := range p.Genomes {
		assert.NoError(t, genome.Verify())
	}
	// the initial topology consumes node ids for inputs, bias and outputs
	assert.Equal(t, opts.NumInputs+opts.NumOutputs+1, p.tracker.NodeIdCounter())
	// all initial genomes wire the same sensor -> output pairs, so at most
	// (inputs + 1) * outputs innovations exist after construction
	assert.True(t, p.tracker.InnovationCounter() <= int64((opts.NumInputs+1)*opts.NumOutputs))
}

// the speciation scaffold: three species with representatives at increasing
// weight offsets so the genetic distances are fully controlled
func buildSpeciationScaffold(t *testing.T, opts *neat.Options) (*Population, []*Genome) {
	t.Helper()
	p := &Population{
		prevRepresentatives: make(map[int]*Genome),
		tracker:             NewInnovationTracker(5, 6),
		opts:                opts,
		rng:                 testRand(7),
		speciesIdSeq:        3,
	}

	representatives := make([]*Genome, 3)
	for i := 0; i < 3; i++ {
		rep := buildTestGenome(t, 200+i)
		for _, conn := range rep.Connections {
			conn.Weight += float64(i) * 2.0
		}
		representatives[i] = rep
		speciesId := i + 1
		species := NewSpecies(speciesId, rep.Duplicate(rep.Id))
		species.clearMembers()
		p.Species = append(p.Species, species)
		p.prevRepresentatives[speciesId] = rep.Duplicate(rep.Id)
	}
	return p, representatives
}

func TestPopulation_Speciate(t *testing.T) {
	opts := testOptions()
	opts.CompatThreshold = 1.0
	p, _ := buildSpeciationScaffold(t, opts)

	// nine genomes, three near each stored representative
	for i := 0; i < 9; i++ {
		genome := buildTestGenome(t, i)
		for _, conn := range genome.Connections {
			conn.Weight += float64(i/3) * 2.0
		}
		p.Genomes = append(p.Genomes, genome)
	}

	p.speciate(opts)

	require.Len(t, p.Species, 3)
	for _, species := range p.Species {
		assert.Len(t, species.Members, 3)
		for _, member := range species.Members {
			// members carry the id of their species
			assert.Equal(t, species.Id, member.SpeciesId)
			// genomes near representative k sit in species k+1
			assert.Equal(t, member.Id/3+1, species.Id)
		}
	}

	// every genome belongs to exactly one species
	seen := make(map[int]int)
	for _, species := range p.Species {
		for _, member := range species.Members {
			seen[member.Id]++
		}
	}
	require.Len(t, seen, 9)
	for id, count := range seen {
		assert.Equal(t, 1, count, "genome %d assigned to %d species", id, count)
	}
}

func TestPopulation_Speciate_Deterministic(t *testing.T) {
	opts := testOptions()
	opts.CompatThreshold = 1.0

	assignments := make([]map[int]int, 2)
	for round := 0; round < 2; round++ {
		p, _ := buildSpeciationScaffold(t, opts)
		for i := 0; i < 9; i++ {
			genome := buildTestGenome(t, i)
			for _, conn := range genome.Connections {
				conn.Weight += float64(i%3) * 2.0
			}
			p.Genomes = append(p.Genomes, genome)
		}
		p.speciate(opts)
		assignment := make(map[int]int)
		for _, genome := range p.Genomes {
			assignment[genome.Id] = genome.SpeciesId
		}
		assignments[round] = assignment
	}
	// reclassifying the same population against the same representatives
	// produces the identical assignment
	assert.Equal(t, assignments[0], assignments[1])
}

func TestPopulation_Speciate_NewSpeciesFounded(t *testing.T) {
	opts := testOptions()
	opts.CompatThreshold = 1.0
	p, _ := buildSpeciationScaffold(t, opts)

	// a genome far away from every stored representative founds its own species
	outlier := buildTestGenome(t, 50)
	for _, conn := range outlier.Connections {
		conn.Weight += 100.0
	}
	p.Genomes = append(p.Genomes, outlier)

	p.speciate(opts)
	require.Len(t, p.Species, 1)
	assert.Equal(t, 4, p.Species[0].Id, "the new species takes the next monotonic id")
	assert.Equal(t, 4, outlier.SpeciesId)
	require.NotNil(t, p.Species[0].Representative)
	assert.Equal(t, outlier.Id, p.Species[0].Representative.Id)
}

func TestPopulation_Speciate_EmptySpeciesDropped(t *testing.T) {
	opts := testOptions()
	opts.CompatThreshold = 1.0
	p, _ := buildSpeciationScaffold(t, opts)

	// all genomes match the first representative only
	for i := 0; i < 4; i++ {
		p.Genomes = append(p.Genomes, buildTestGenome(t, i))
	}
	p.speciate(opts)

	require.Len(t, p.Species, 1)
	assert.Equal(t, 1, p.Species[0].Id)
	assert.Len(t, p.Species[0].Members, 4)
}

func TestPopulation_FindGenome(t *testing.T) {
	opts := testOptions()
	p, err := NewPopulation(opts, testRand(opts.Seed))
	require.NoError(t, err)

	genome := p.Genomes[3]
	assert.Equal(t, genome, p.FindGenome(genome.Id))
	assert.Nil(t, p.FindGenome(100000))
}
