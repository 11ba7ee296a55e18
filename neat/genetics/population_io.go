package genetics

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yaricom/goNEATMaze/neat"
	"github.com/yaricom/goNEATMaze/neat/math"
	"github.com/yaricom/goNEATMaze/neat/network"
)

// SaveFormatVersion the format version stamp of the evolutionary state image.
// Checked on load.
const SaveFormatVersion = "goNEATMaze/state/1"

type savedNodeGene struct {
	Id         int     `yaml:"id"`
	Type       string  `yaml:"type"`
	Bias       float64 `yaml:"bias"`
	Activation string  `yaml:"activation"`
}

type savedConnectionGene struct {
	Innovation int64   `yaml:"innovation"`
	InNode     int     `yaml:"in_node"`
	OutNode    int     `yaml:"out_node"`
	Weight     float64 `yaml:"weight"`
	Enabled    bool    `yaml:"enabled"`
}

type savedGenome struct {
	Id              int                   `yaml:"id"`
	Fitness         float64               `yaml:"fitness"`
	AdjustedFitness float64               `yaml:"adjusted_fitness"`
	SpeciesId       int                   `yaml:"species_id"`
	Nodes           []savedNodeGene       `yaml:"nodes"`
	Connections     []savedConnectionGene `yaml:"connections"`
}

type savedSpecies struct {
	Id                          int     `yaml:"id"`
	RepresentativeId            int     `yaml:"representative_id"`
	MemberIds                   []int   `yaml:"member_ids"`
	GenerationsSinceImprovement int     `yaml:"generations_since_improvement"`
	BestFitnessEver             float64 `yaml:"best_fitness_ever"`
}

type savedRepresentative struct {
	SpeciesId int `yaml:"species_id"`
	GenomeId  int `yaml:"genome_id"`
}

// saveImage is the full evolutionary state of one run as written to disk
type saveImage struct {
	FormatVersion    string                 `yaml:"format_version"`
	Options          *neat.Options          `yaml:"options"`
	MazeSeed         int64                  `yaml:"maze_seed"`
	Generation       int                    `yaml:"generation"`
	NextNodeId       int                    `yaml:"next_node_id"`
	NextInnovation   int64                  `yaml:"next_innovation"`
	GenomeIdCounter  int                    `yaml:"genome_id_counter"`
	SpeciesIdCounter int                    `yaml:"species_id_counter"`
	Genomes          []savedGenome          `yaml:"genomes"`
	PopulationIds    []int                  `yaml:"population"`
	Species          []savedSpecies         `yaml:"species"`
	PrevReps         []savedRepresentative  `yaml:"previous_representatives"`
	BestGenomeId     *int                   `yaml:"best_genome_id,omitempty"`
	Statistics       []GenerationStatistics `yaml:"statistics"`
}

// Write Serializes the full evolutionary state of the population into the
// provided writer as a versioned YAML image. The genome pool stores every
// genome referenced by the live population, the species member lists, the
// previous-generation representatives and the all-time best, deduplicated
// by id.
func (p *Population) Write(w io.Writer) error {
	image := saveImage{
		FormatVersion:    SaveFormatVersion,
		Options:          p.opts,
		MazeSeed:         p.opts.MazeSeed,
		Generation:       p.Generation,
		NextNodeId:       p.tracker.NodeIdCounter(),
		NextInnovation:   p.tracker.InnovationCounter(),
		GenomeIdCounter:  p.genomeIdSeq,
		SpeciesIdCounter: p.speciesIdSeq,
		Statistics:       p.Statistics,
	}

	pool := make(map[int]*Genome)
	addToPool := func(g *Genome) {
		if g == nil {
			return
		}
		if _, ok := pool[g.Id]; !ok {
			pool[g.Id] = g
		}
	}

	for _, genome := range p.Genomes {
		image.PopulationIds = append(image.PopulationIds, genome.Id)
		addToPool(genome)
	}

	species := make([]*Species, len(p.Species))
	copy(species, p.Species)
	sort.Slice(species, func(i, j int) bool { return species[i].Id < species[j].Id })
	for _, s := range species {
		saved := savedSpecies{
			Id:                          s.Id,
			GenerationsSinceImprovement: s.GenerationsSinceImprovement,
			BestFitnessEver:             s.BestFitnessEver,
		}
		if s.Representative != nil {
			saved.RepresentativeId = s.Representative.Id
			addToPool(s.Representative)
		}
		for _, member := range s.Members {
			saved.MemberIds = append(saved.MemberIds, member.Id)
			addToPool(member)
		}
		image.Species = append(image.Species, saved)
	}

	prevIds := make([]int, 0, len(p.prevRepresentatives))
	for id := range p.prevRepresentatives {
		prevIds = append(prevIds, id)
	}
	sort.Ints(prevIds)
	for _, speciesId := range prevIds {
		representative := p.prevRepresentatives[speciesId]
		image.PrevReps = append(image.PrevReps, savedRepresentative{
			SpeciesId: speciesId,
			GenomeId:  representative.Id,
		})
		addToPool(representative)
	}

	if p.BestEver != nil {
		bestId := p.BestEver.Id
		image.BestGenomeId = &bestId
		addToPool(p.BestEver)
	}

	poolIds := make([]int, 0, len(pool))
	for id := range pool {
		poolIds = append(poolIds, id)
	}
	sort.Ints(poolIds)
	for _, id := range poolIds {
		saved, err := encodeGenome(pool[id])
		if err != nil {
			return err
		}
		image.Genomes = append(image.Genomes, saved)
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(image); err != nil {
		return errors.Wrap(err, "failed to encode population state")
	}
	return enc.Close()
}

// ReadPopulation Restores the full evolutionary state from a save image
// produced by Population.Write. The load is all-or-nothing: any error leaves
// the caller's previous state untouched. A species referencing a missing
// genome is reported with a warning and skipped rather than corrupting the
// state.
func ReadPopulation(r io.Reader, rng *rand.Rand) (*Population, *neat.Options, error) {
	var image saveImage
	if err := yaml.NewDecoder(r).Decode(&image); err != nil {
		return nil, nil, errors.Wrap(err, "malformed population state image")
	}
	if image.FormatVersion != SaveFormatVersion {
		return nil, nil, errors.Errorf("unsupported state format version: [%s], expected: [%s]",
			image.FormatVersion, SaveFormatVersion)
	}
	if image.Options == nil {
		return nil, nil, errors.New("state image carries no configuration snapshot")
	}
	if err := image.Options.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "state image carries invalid configuration")
	}

	pool := make(map[int]*Genome, len(image.Genomes))
	for _, saved := range image.Genomes {
		genome, err := decodeGenome(saved)
		if err != nil {
			return nil, nil, err
		}
		pool[genome.Id] = genome
	}

	p := &Population{
		Genomes:             make(Genomes, 0, len(image.PopulationIds)),
		Species:             make([]*Species, 0, len(image.Species)),
		prevRepresentatives: make(map[int]*Genome),
		tracker:             NewInnovationTracker(image.NextNodeId, image.NextInnovation),
		genomeIdSeq:         image.GenomeIdCounter,
		speciesIdSeq:        image.SpeciesIdCounter,
		Generation:          image.Generation,
		Statistics:          image.Statistics,
		opts:                image.Options,
		rng:                 rng,
	}

	for _, id := range image.PopulationIds {
		genome, ok := pool[id]
		if !ok {
			return nil, nil, errors.Errorf("population member genome [%d] missing from the state image", id)
		}
		p.Genomes = append(p.Genomes, genome)
	}

	for _, saved := range image.Species {
		representative, ok := pool[saved.RepresentativeId]
		if !ok {
			neat.WarnLog(fmt.Sprintf("POPULATION: representative genome [%d] of species [%d] missing, species skipped",
				saved.RepresentativeId, saved.Id))
			continue
		}
		species := &Species{
			Id:                          saved.Id,
			Representative:              representative.Duplicate(representative.Id),
			Members:                     make(Genomes, 0, len(saved.MemberIds)),
			GenerationsSinceImprovement: saved.GenerationsSinceImprovement,
			BestFitnessEver:             saved.BestFitnessEver,
		}
		missingMember := false
		for _, memberId := range saved.MemberIds {
			member, ok := pool[memberId]
			if !ok {
				neat.WarnLog(fmt.Sprintf("POPULATION: member genome [%d] of species [%d] missing, species skipped",
					memberId, saved.Id))
				missingMember = true
				break
			}
			species.Members = append(species.Members, member)
		}
		if missingMember {
			continue
		}
		p.Species = append(p.Species, species)
	}

	for _, saved := range image.PrevReps {
		genome, ok := pool[saved.GenomeId]
		if !ok {
			neat.WarnLog(fmt.Sprintf("POPULATION: previous representative genome [%d] of species [%d] missing, skipped",
				saved.GenomeId, saved.SpeciesId))
			continue
		}
		p.prevRepresentatives[saved.SpeciesId] = genome.Duplicate(genome.Id)
	}

	if image.BestGenomeId != nil {
		if best, ok := pool[*image.BestGenomeId]; ok {
			p.BestEver = best.Duplicate(best.Id)
		} else {
			neat.WarnLog(fmt.Sprintf("POPULATION: all-time best genome [%d] missing from the state image", *image.BestGenomeId))
		}
	}

	return p, image.Options, nil
}

func encodeGenome(g *Genome) (savedGenome, error) {
	saved := savedGenome{
		Id:              g.Id,
		Fitness:         g.Fitness,
		AdjustedFitness: g.AdjustedFitness,
		SpeciesId:       g.SpeciesId,
	}
	for _, id := range g.NodeIds() {
		node := g.Nodes[id]
		activation, err := math.NodeActivators.ActivationNameFromType(node.ActivationType)
		if err != nil {
			return saved, errors.Wrapf(err, "failed to encode node [%d] of genome [%d]", id, g.Id)
		}
		saved.Nodes = append(saved.Nodes, savedNodeGene{
			Id:         node.Id,
			Type:       network.NeuronTypeName(node.NeuronType),
			Bias:       node.Bias,
			Activation: activation,
		})
	}
	for _, innovation := range g.ConnectionInnovations() {
		conn := g.Connections[innovation]
		saved.Connections = append(saved.Connections, savedConnectionGene{
			Innovation: conn.InnovationNum,
			InNode:     conn.InNodeId,
			OutNode:    conn.OutNodeId,
			Weight:     conn.Weight,
			Enabled:    conn.Enabled,
		})
	}
	return saved, nil
}

func decodeGenome(saved savedGenome) (*Genome, error) {
	nodes := make(map[int]*NodeGene, len(saved.Nodes))
	for _, savedNode := range saved.Nodes {
		neuronType, err := network.NeuronTypeByName(savedNode.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode node [%d] of genome [%d]", savedNode.Id, saved.Id)
		}
		activation, err := math.NodeActivators.ActivationTypeFromName(savedNode.Activation)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode node [%d] of genome [%d]", savedNode.Id, saved.Id)
		}
		nodes[savedNode.Id] = &NodeGene{
			Id:             savedNode.Id,
			NeuronType:     neuronType,
			Bias:           savedNode.Bias,
			ActivationType: activation,
		}
	}
	connections := make(map[int64]*ConnectionGene, len(saved.Connections))
	for _, savedConn := range saved.Connections {
		connections[savedConn.Innovation] = NewConnectionGene(
			savedConn.InNode, savedConn.OutNode, savedConn.Weight, savedConn.Enabled, savedConn.Innovation)
	}
	genome := NewGenomeFromGenes(saved.Id, nodes, connections)
	genome.Fitness = saved.Fitness
	genome.AdjustedFitness = saved.AdjustedFitness
	genome.SpeciesId = saved.SpeciesId
	if err := genome.Verify(); err != nil {
		return nil, errors.Wrapf(err, "genome [%d] from the state image is malformed", saved.Id)
	}
	return genome, nil
}
