package genetics

import (
	"math/rand"
	"sort"

	"github.com/yaricom/goNEATMaze/neat"
)

// mate Performs crossover of two parent genomes aligned by their innovation
// numbers and returns the child with the provided id.
//
// The child node set is a copy of the fitter parent's nodes. The union of
// innovations is walked in sorted order: matching genes are inherited from a
// randomly chosen parent, disjoint and excess genes are inherited from the
// fitter parent only. A matching gene disabled in either parent stays
// disabled in the child with the configured probability. Ties of fitness are
// broken by the caller; passing firstFitter == true treats the first parent
// as the fitter one.
func mate(p1, p2 *Genome, childId int, firstFitter bool, opts *neat.Options, rng *rand.Rand) *Genome {
	fitter, weaker := p1, p2
	if !firstFitter {
		fitter, weaker = p2, p1
	}

	childNodes := make(map[int]*NodeGene, len(fitter.Nodes))
	for id, node := range fitter.Nodes {
		childNodes[id] = NewNodeGeneCopy(node)
	}

	childConnections := make(map[int64]*ConnectionGene)
	// the sorted union of both parents' innovations
	innovations := fitter.ConnectionInnovations()
	for _, innovation := range weaker.ConnectionInnovations() {
		if _, ok := fitter.Connections[innovation]; !ok {
			innovations = append(innovations, innovation)
		}
	}
	sort.Slice(innovations, func(i, j int) bool { return innovations[i] < innovations[j] })

	for _, innovation := range innovations {
		fitterGene, inFitter := fitter.Connections[innovation]
		weakerGene, inWeaker := weaker.Connections[innovation]
		switch {
		case inFitter && inWeaker:
			// matching gene - inherit from a random parent
			chosen := fitterGene
			if rng.Float64() < 0.5 {
				chosen = weakerGene
			}
			gene := NewConnectionGeneCopy(chosen)
			if !fitterGene.Enabled || !weakerGene.Enabled {
				gene.Enabled = rng.Float64() >= opts.InheritDisabledGeneRate
			} else {
				gene.Enabled = true
			}
			childConnections[innovation] = gene
		case inFitter:
			// disjoint or excess gene of the fitter parent - inherit
			childConnections[innovation] = NewConnectionGeneCopy(fitterGene)
		default:
			// gene known only to the less fit parent - discard
		}
	}

	return NewGenomeFromGenes(childId, childNodes, childConnections)
}
