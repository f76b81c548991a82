package main

import (
	"context"
	"io/ioutil"
	"os"
	"time"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/forest"
	"github.com/pbanos/canopy/tree"
	"github.com/pbanos/canopy/tree/xml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

type growCmdConfig struct {
	*rootCmdConfig
	inputConfig
	storeConfig
	configInput        string
	output             string
	xmlOutput          string
	xmlSplitAttributes bool
	single             bool
	numTrees           int
	ratio              float64
	maxDepth           int
	seed               int64
	workers            int
}

// growFileConfig holds the forest parameters that can be read from a YML
// file. Unset parameters keep their defaults.
type growFileConfig struct {
	NumTrees *int     `yaml:"numTrees"`
	Ratio    *float64 `yaml:"ratio"`
	MaxDepth *int     `yaml:"maxDepth"`
	Seed     *int64   `yaml:"seed"`
	Workers  *int     `yaml:"workers"`
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a random forest from a set of samples",
		Long:  `Grow a random forest (or a single decision tree) from a set of labelled samples.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exitWith(config.log, 1, err)
			}
			opts, err := config.forestOptions(cmd)
			if err != nil {
				exitWith(config.log, 2, err)
			}
			ds, err := config.dataset(cmd.Context(), config.log)
			if err != nil {
				exitWith(config.log, 3, err)
			}
			f, err := config.grow(cmd.Context(), ds, opts)
			if err != nil {
				exitWith(config.log, 4, err)
			}
			err = config.outputForest(cmd.Context(), f)
			if err != nil {
				exitWith(config.log, 5, err)
			}
		},
	}
	config.inputConfig.addFlags(cmd)
	config.storeConfig.addFlags(cmd)
	cmd.Flags().StringVarP(&(config.configInput), "config", "c", "", "path to a YML file with forest parameters (numTrees, ratio, maxDepth, seed, workers), overridden by flags")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the grown forest will be written in JSON format (defaults to STDOUT unless stored on redis)")
	cmd.Flags().StringVar(&(config.xmlOutput), "xml", "", "path to a file to which the grown forest will also be written in XML format")
	cmd.Flags().BoolVar(&(config.xmlSplitAttributes), "xml-split-attributes", false, "include split attributes on the XML output so it can be used to classify")
	cmd.Flags().BoolVar(&(config.single), "single", false, "grow a single decision tree on all samples evaluating every attribute on every node")
	cmd.Flags().IntVarP(&(config.numTrees), "trees", "n", forest.DefaultNumTrees, "number of trees of the forest")
	cmd.Flags().Float64VarP(&(config.ratio), "ratio", "r", forest.DefaultRatio, "share of the samples each tree is grown on, in (0, 1]")
	cmd.Flags().IntVarP(&(config.maxDepth), "depth", "d", forest.DefaultMaxDepth, "depth at which nodes stop splitting (negative for no limit)")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed of the source of randomness (defaults to one taken from the clock)")
	cmd.Flags().IntVarP(&(config.workers), "workers", "w", 1, "number of trees grown concurrently")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if err := gcc.inputConfig.Validate(); err != nil {
		return err
	}
	return gcc.storeConfig.Validate()
}

func (gcc *growCmdConfig) forestOptions(cmd *cobra.Command) ([]forest.Option, error) {
	opts := []forest.Option{forest.Logger(gcc.log), forest.Metrics(gcc.metrics)}
	if gcc.configInput != "" {
		fileOpts, err := readGrowFileConfig(gcc.configInput)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}
	flags := cmd.Flags()
	if flags.Changed("trees") {
		opts = append(opts, forest.NumTrees(gcc.numTrees))
	}
	if flags.Changed("ratio") {
		opts = append(opts, forest.Ratio(gcc.ratio))
	}
	if flags.Changed("depth") {
		opts = append(opts, forest.MaxDepth(gcc.maxDepth))
	}
	if flags.Changed("seed") {
		opts = append(opts, forest.Seed(gcc.seed))
	}
	if flags.Changed("workers") {
		opts = append(opts, forest.Workers(gcc.workers))
	}
	return opts, nil
}

func readGrowFileConfig(filepath string) ([]forest.Option, error) {
	content, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", filepath)
	}
	fc := &growFileConfig{}
	if err = yaml.UnmarshalStrict(content, fc); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", filepath)
	}
	var opts []forest.Option
	if fc.NumTrees != nil {
		opts = append(opts, forest.NumTrees(*fc.NumTrees))
	}
	if fc.Ratio != nil {
		opts = append(opts, forest.Ratio(*fc.Ratio))
	}
	if fc.MaxDepth != nil {
		opts = append(opts, forest.MaxDepth(*fc.MaxDepth))
	}
	if fc.Seed != nil {
		opts = append(opts, forest.Seed(*fc.Seed))
	}
	if fc.Workers != nil {
		opts = append(opts, forest.Workers(*fc.Workers))
	}
	return opts, nil
}

func (gcc *growCmdConfig) grow(ctx context.Context, ds *dataset.Dataset, opts []forest.Option) (*forest.Forest, error) {
	f := forest.New(opts...)
	if !gcc.single {
		gcc.log.Infof("Growing forest of %d trees from a set with %d samples...", f.Config().NumTrees, ds.Count())
		if err := f.Construct(ctx, ds); err != nil {
			return nil, err
		}
		gcc.log.Info("Done")
		return f, nil
	}
	config := forest.Config{NumTrees: 1, Ratio: 1, MaxDepth: f.Config().MaxDepth}
	gcc.log.Infof("Growing tree from a set with %d samples...", ds.Count())
	start := time.Now()
	t := &tree.DecisionTree{}
	if err := t.Construct(ds, false, config.MaxDepth, nil); err != nil {
		return nil, errors.Wrap(err, "growing tree")
	}
	gcc.metrics.ObserveTree(t.Size(), time.Since(start))
	gcc.log.Info("Done")
	gcc.log.Debugf("%v", t)
	return forest.FromTrees(config, []*tree.DecisionTree{t}, opts...), nil
}

func (gcc *growCmdConfig) outputForest(ctx context.Context, f *forest.Forest) error {
	if gcc.xmlOutput != "" {
		gcc.log.Debugf("Writing forest in XML to %s...", gcc.xmlOutput)
		err := xml.Encoder{SplitAttributes: gcc.xmlSplitAttributes}.WriteForestFile(gcc.xmlOutput, f.Trees())
		if err != nil {
			return err
		}
	}
	if gcc.storeConfig.enabled() {
		gcc.log.Debugf("Storing forest as %q on redis at %s...", gcc.name, gcc.redisAddr)
		s := gcc.store()
		defer s.Close(ctx)
		if err := s.Put(ctx, gcc.name, f); err != nil {
			return err
		}
		if gcc.output == "" {
			return nil
		}
	}
	if gcc.output == "" {
		return f.WriteJSON(os.Stdout)
	}
	file, err := os.Create(gcc.output)
	if err != nil {
		return errors.Wrapf(err, "opening %s for writing", gcc.output)
	}
	defer file.Close()
	return f.WriteJSON(file)
}
