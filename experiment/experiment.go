package experiment

import (
	"fmt"
	"io"
	"time"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// Experiment is the aggregation of evolution trials executed across different
// top-level seeds with one configuration.
type Experiment struct {
	// Id the experiment identifier
	Id int
	// Name the human readable experiment name
	Name string
	// Trials the completed trials
	Trials Trials
}

// AvgTrialDuration Returns the average duration of one trial
func (e *Experiment) AvgTrialDuration() time.Duration {
	if len(e.Trials) == 0 {
		return EmptyDuration
	}
	total := time.Duration(0)
	for _, trial := range e.Trials {
		total += trial.Duration
	}
	return total / time.Duration(len(e.Trials))
}

// TrialsSolved Returns the number of trials which found a maze solver
func (e *Experiment) TrialsSolved() int {
	solved := 0
	for _, trial := range e.Trials {
		if trial.Solved() {
			solved++
		}
	}
	return solved
}

// SuccessRate Returns the share of trials which found a maze solver
func (e *Experiment) SuccessRate() float64 {
	if len(e.Trials) == 0 {
		return 0
	}
	return float64(e.TrialsSolved()) / float64(len(e.Trials))
}

// BestFitness Returns the best fitness reached by each trial
func (e *Experiment) BestFitness() Floats {
	x := make(Floats, len(e.Trials))
	for i, trial := range e.Trials {
		x[i] = trial.BestFitness().Max()
	}
	return x
}

// PrintStatistics Prints the summary of the collected experiment statistics
func (e *Experiment) PrintStatistics(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n+++ Experiment: %s +++\n", e.Name)
	_, _ = fmt.Fprintf(w, "Trials: %d, solved: %d (success rate: %.2f)\n",
		len(e.Trials), e.TrialsSolved(), e.SuccessRate())
	_, _ = fmt.Fprintf(w, "Average trial duration: %s\n", e.AvgTrialDuration())
	best := e.BestFitness()
	if len(best) > 0 {
		mv := best.MeanVariance()
		_, _ = fmt.Fprintf(w, "Best fitness over trials, max: %.2f, mean: %.2f, variance: %.2f\n",
			best.Max(), mv[0], mv[1])
	}
	for _, trial := range e.Trials {
		if winner, found := trial.WinnerGeneration(); found {
			_, _ = fmt.Fprintf(w, "Trial %d solved at generation %d (winner nodes: %d, genes: %d)\n",
				trial.Id, winner.Id, winner.WinnerNodes, winner.WinnerGenes)
		}
	}
}

// WriteNPZ Dumps the experiment results to the NPZ file. The file has the
// following structure:
// - trials_best_fitness - the mean, variance of best fitness scores per trial
// - trials_diversity - the mean, variance of species counts per trial
// - trial_[0...n]_epoch_best_fitnesses - the best fitness per epoch per trial
// - trial_[0...n]_epoch_mean_fitnesses - the mean fitness per epoch per trial
// - trial_[0...n]_epoch_diversity - the number of species per epoch per trial
func (e *Experiment) WriteNPZ(w io.Writer) error {
	trialsFitness := mat.NewDense(len(e.Trials), 2, nil)   // mean, var
	trialsDiversity := mat.NewDense(len(e.Trials), 2, nil) // mean, var
	for i, trial := range e.Trials {
		trialsFitness.SetRow(i, trial.BestFitness().MeanVariance())
		trialsDiversity.SetRow(i, trial.Diversity().MeanVariance())
	}
	out := npz.NewWriter(w)
	if err := out.Write("trials_best_fitness", trialsFitness); err != nil {
		return err
	}
	if err := out.Write("trials_diversity", trialsDiversity); err != nil {
		return err
	}
	for i, trial := range e.Trials {
		if err := out.Write(fmt.Sprintf("trial_%d_epoch_best_fitnesses", i), []float64(trial.BestFitness())); err != nil {
			return err
		}
		if err := out.Write(fmt.Sprintf("trial_%d_epoch_mean_fitnesses", i), []float64(trial.AvgFitness())); err != nil {
			return err
		}
		if err := out.Write(fmt.Sprintf("trial_%d_epoch_diversity", i), []float64(trial.Diversity())); err != nil {
			return err
		}
	}
	return out.Close()
}
