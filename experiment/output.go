package experiment

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yaricom/goNEATMaze/neat"
)

// OutputManager handles the structured experiment output directory with the
// CSV statistics log, the configuration snapshot and the NPZ results dump.
type OutputManager struct {
	dir string
}

// NewOutputManager Creates a new output manager rooted at the provided
// directory. Returns nil when dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create the output directory")
	}
	return &OutputManager{dir: dir}, nil
}

// WriteOptions Saves the run configuration snapshot as YAML
func (om *OutputManager) WriteOptions(opts *neat.Options) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(opts)
	if err != nil {
		return errors.Wrap(err, "failed to encode options")
	}
	return os.WriteFile(filepath.Join(om.dir, "options.yaml"), data, 0644)
}

// WriteGenerations Writes the per-generation statistics of one trial to
// generations.csv, appending to records of the previous trials.
func (om *OutputManager) WriteGenerations(generations Generations) error {
	if om == nil {
		return nil
	}
	path := filepath.Join(om.dir, "generations.csv")
	appending := false
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		appending = true
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to open generations.csv")
	}
	defer func() {
		_ = f.Close()
	}()
	if appending {
		return gocsv.MarshalWithoutHeaders(generations, f)
	}
	return gocsv.Marshal(generations, f)
}

// WriteExperimentNPZ Dumps the experiment results as results.npz
func (om *OutputManager) WriteExperimentNPZ(experiment *Experiment) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "results.npz"))
	if err != nil {
		return errors.Wrap(err, "failed to create results.npz")
	}
	defer func() {
		_ = f.Close()
	}()
	return experiment.WriteNPZ(f)
}

// Dir Returns the output directory path or empty when output is disabled
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}
