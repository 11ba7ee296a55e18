// Package genetics holds the genotype side of NEAT: node and connection
// genes, genomes with their variation operators, species, and the population
// with its generation pipeline.
package genetics

// Genomes is a sortable collection of genomes by fitness
type Genomes []*Genome

func (g Genomes) Len() int {
	return len(g)
}
func (g Genomes) Less(i, j int) bool {
	if g[i].Fitness == g[j].Fitness {
		// stable tie-break keeps reproduction deterministic
		return g[i].Id < g[j].Id
	}
	return g[i].Fitness < g[j].Fitness
}
func (g Genomes) Swap(i, j int) {
	g[i], g[j] = g[j], g[i]
}
