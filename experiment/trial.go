package experiment

import (
	"time"
)

// EmptyDuration is returned when an average duration can not be estimated
// over empty trials or generations
const EmptyDuration = time.Duration(-1)

// Trial holds the statistics of one complete evolution run over a number of
// generations with one top-level seed
type Trial struct {
	// Id the trial number
	Id int
	// Seed the top-level random seed the trial ran with
	Seed int64
	// Generations the results per generation in this trial
	Generations Generations
	// Duration the elapsed time between trial start and finish
	Duration time.Duration
}

// AvgEpochDuration Calculates the average duration of one generation within this trial
func (t *Trial) AvgEpochDuration() time.Duration {
	if len(t.Generations) == 0 {
		return EmptyDuration
	}
	total := time.Duration(0)
	for _, generation := range t.Generations {
		total += generation.Duration
	}
	return total / time.Duration(len(t.Generations))
}

// Solved Returns true when some generation of this trial found a winner
func (t *Trial) Solved() bool {
	for _, generation := range t.Generations {
		if generation.Solved {
			return true
		}
	}
	return false
}

// WinnerGeneration Returns the first generation which found a winner, if any
func (t *Trial) WinnerGeneration() (Generation, bool) {
	for _, generation := range t.Generations {
		if generation.Solved {
			return generation, true
		}
	}
	return Generation{}, false
}

// BestFitness Returns the best fitness values per generation of this trial
func (t *Trial) BestFitness() Floats {
	x := make(Floats, len(t.Generations))
	for i, generation := range t.Generations {
		x[i] = generation.MaxFitness
	}
	return x
}

// AvgFitness Returns the average fitness values per generation of this trial
func (t *Trial) AvgFitness() Floats {
	x := make(Floats, len(t.Generations))
	for i, generation := range t.Generations {
		x[i] = generation.AvgFitness
	}
	return x
}

// BestEverFitness Returns the all-time best fitness trajectory of this trial
func (t *Trial) BestEverFitness() Floats {
	x := make(Floats, len(t.Generations))
	for i, generation := range t.Generations {
		x[i] = generation.BestEverFitness
	}
	return x
}

// Diversity Returns the number of species per generation of this trial
func (t *Trial) Diversity() Floats {
	x := make(Floats, len(t.Generations))
	for i, generation := range t.Generations {
		x[i] = float64(generation.Diversity)
	}
	return x
}

// Trials is a collection of experiment trials
type Trials []*Trial
