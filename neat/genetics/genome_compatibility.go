package genetics

import (
	"math"

	"github.com/yaricom/goNEATMaze/neat"
)

/* ******** COMPATIBILITY CHECKING ******** */

// compatibility This function gives a measure of compatibility between two
// Genomes by computing a linear combination of three characterizing
// variables: the number of excess genes, the number of disjoint genes and the
// average weight difference of matching genes. The formula is:
//
//	c1*E/N + c2*D/N + c3*W
//
// where E is the excess gene count, D the disjoint gene count, W the mean
// absolute weight difference over matching enabled genes, and N the gene
// count of the larger genome (at least 1). Excess genes are those whose
// innovation lies beyond the other genome's maximum innovation; the remaining
// non-matching genes are disjoint.
//
// The bigger returned value the less compatible the genomes. Fully compatible
// genomes have 0.0 returned.
func (g *Genome) compatibility(og *Genome, opts *neat.Options) float64 {
	matching, weightDiffTotal := 0, 0.0
	disjoint, excess := 0, 0

	maxInnovation1 := g.maxInnovation()
	maxInnovation2 := og.maxInnovation()

	// walk the genes in sorted innovation order so the floating point
	// accumulation is reproducible between runs
	structurallyEqual := len(g.Connections) == len(og.Connections)
	for _, innovation := range g.ConnectionInnovations() {
		conn1 := g.Connections[innovation]
		conn2, ok := og.Connections[innovation]
		if !ok {
			structurallyEqual = false
			if innovation > maxInnovation2 {
				excess++
			} else {
				disjoint++
			}
			continue
		}
		if conn1.Enabled && conn2.Enabled {
			matching++
			weightDiffTotal += math.Abs(conn1.Weight - conn2.Weight)
		}
	}
	for innovation := range og.Connections {
		if _, ok := g.Connections[innovation]; !ok {
			structurallyEqual = false
			if innovation > maxInnovation1 {
				excess++
			} else {
				disjoint++
			}
		}
	}

	weightDiffAvg := 0.0
	if matching > 0 {
		weightDiffAvg = weightDiffTotal / float64(matching)
	}

	// with exactly equal connection sets the excess and disjoint terms are
	// trivially zero and only the weight component remains
	if structurallyEqual {
		return opts.WeightCoeff * weightDiffAvg
	}

	n := len(g.Connections)
	if len(og.Connections) > n {
		n = len(og.Connections)
	}
	if n < 1 {
		n = 1
	}

	return opts.ExcessCoeff*float64(excess)/float64(n) +
		opts.DisjointCoeff*float64(disjoint)/float64(n) +
		opts.WeightCoeff*weightDiffAvg
}
