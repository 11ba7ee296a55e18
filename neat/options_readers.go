package neat

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
	"io"
	"os"
)

// LoadYAMLOptions is to load NEAT options encoded as YAML file
func LoadYAMLOptions(r io.Reader) (*Options, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// read options
	var opts Options
	if err = yaml.Unmarshal(content, &opts); err != nil {
		return nil, errors.Wrap(err, "failed to decode NEAT options from YAML")
	}

	// initialize logger
	if opts.LogLevel != "" {
		if err = InitLogger(opts.LogLevel); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}

	if err = opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid NEAT options")
	}

	return &opts, nil
}

// LoadNeatOptions Loads NEAT options configuration from provided reader encoded in plain text format (.neat)
func LoadNeatOptions(r io.Reader) (*Options, error) {
	c := &Options{}
	// read configuration
	var name string
	var param string
	for {
		_, err := fmt.Fscanf(r, "%s %v\n", &name, &param)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		switch name {
		case "population_size":
			c.PopSize = cast.ToInt(param)
		case "compatibility_threshold":
			c.CompatThreshold = cast.ToFloat64(param)
		case "c1_excess":
			c.ExcessCoeff = cast.ToFloat64(param)
		case "c2_disjoint":
			c.DisjointCoeff = cast.ToFloat64(param)
		case "c3_weight":
			c.WeightCoeff = cast.ToFloat64(param)
		case "max_stagnation":
			c.MaxStagnation = cast.ToInt(param)
		case "weight_mutate_rate":
			c.WeightMutateRate = cast.ToFloat64(param)
		case "weight_replace_rate":
			c.WeightReplaceRate = cast.ToFloat64(param)
		case "weight_mutate_power":
			c.WeightMutatePower = cast.ToFloat64(param)
		case "weight_cap":
			c.WeightCap = cast.ToFloat64(param)
		case "weight_init_range":
			c.WeightInitRange = cast.ToFloat64(param)
		case "add_connection_rate":
			c.AddConnectionRate = cast.ToFloat64(param)
		case "add_node_rate":
			c.AddNodeRate = cast.ToFloat64(param)
		case "crossover_rate":
			c.CrossoverRate = cast.ToFloat64(param)
		case "inherit_disabled_gene_rate":
			c.InheritDisabledGeneRate = cast.ToFloat64(param)
		case "elitism":
			c.Elitism = cast.ToInt(param)
		case "selection_percentage":
			c.SelectionPercentage = cast.ToFloat64(param)
		case "initial_connections":
			c.InitialConnections = cast.ToInt(param)
		case "maze_width":
			c.MazeWidth = cast.ToInt(param)
		case "maze_height":
			c.MazeHeight = cast.ToInt(param)
		case "maze_seed":
			c.MazeSeed = cast.ToInt64(param)
		case "max_steps_per_evaluation":
			c.MaxStepsPerEvaluation = cast.ToInt(param)
		case "num_rangefinders":
			c.NumRangefinders = cast.ToInt(param)
		case "rangefinder_max_dist":
			c.RangefinderMaxDist = cast.ToFloat64(param)
		case "num_radar_slices":
			c.NumRadarSlices = cast.ToInt(param)
		case "agent_max_speed":
			c.AgentMaxSpeed = cast.ToFloat64(param)
		case "num_inputs":
			c.NumInputs = cast.ToInt(param)
		case "num_outputs":
			c.NumOutputs = cast.ToInt(param)
		case "num_processes":
			c.NumProcesses = cast.ToInt(param)
		case "seed":
			c.Seed = cast.ToInt64(param)
		case "log_level":
			c.LogLevel = param
		default:
			return nil, errors.Errorf("unknown configuration key: %s", name)
		}
	}
	if c.LogLevel != "" {
		if err := InitLogger(c.LogLevel); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid NEAT options")
	}
	return c, nil
}

// ReadOptions reads NEAT options from specified configFilePath automatically resolving config file format
func ReadOptions(configFilePath string) (*Options, error) {
	configFile, err := os.Open(configFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open options file")
	}
	defer func() {
		_ = configFile.Close()
	}()
	if isYAMLFile(configFilePath) {
		return LoadYAMLOptions(configFile)
	}
	return LoadNeatOptions(configFile)
}

func isYAMLFile(path string) bool {
	n := len(path)
	return (n > 5 && path[n-5:] == ".yaml") || (n > 4 && path[n-4:] == ".yml")
}
